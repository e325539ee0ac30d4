package commands

import (
	"fmt"

	"github.com/de-tools/policy-report/pkg/services/config"
	"github.com/spf13/cobra"
)

type ProfilesCmd struct {
	profilesPath string
}

func NewProfilesCmd() *cobra.Command {
	pc := &ProfilesCmd{}
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List the profiles available for process --profile",
		RunE:  pc.run,
	}

	cmd.Flags().StringVar(&pc.profilesPath, "profiles-file", "", "Path to the profiles file (default is $HOME/.policyreportcfg)")

	return cmd
}

func (pc *ProfilesCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	path := pc.profilesPath
	if path == "" {
		path = config.DefaultProfilesPath()
	}

	registry, err := config.NewRegistry(path)
	if err != nil {
		return err
	}

	names, err := registry.GetProfiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}
	if len(names) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No profiles found in %s\n", path)
		return nil
	}

	for _, name := range names {
		profile, err := registry.GetProfile(ctx, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Name: `%s`, Company: `%s`, Endpoint: `%s`\n",
			profile.Name, profile.CompanyName, profile.Endpoint)
	}
	return nil
}

package commands

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/de-tools/policy-report/pkg/models/domain"
	"github.com/de-tools/policy-report/pkg/runtime/logging"
	"github.com/de-tools/policy-report/pkg/services/config"
	"github.com/de-tools/policy-report/pkg/services/downloads"
	"github.com/de-tools/policy-report/pkg/services/render"
	"github.com/de-tools/policy-report/pkg/services/uploader"
	"github.com/de-tools/policy-report/pkg/store/client"
	"github.com/spf13/cobra"
)

const (
	FormatText  = "text"
	FormatTable = "table"
)

// ErrReported marks errors the view has already shown to the user.
var ErrReported = errors.New("reported")

type ProcessDeps struct {
	Sinks            downloads.Registry
	ProcessorFactory func(endpoint string) client.Processor
	ViewFactory      func(format string, tab render.Tab) (uploader.View, error)
}

type ProcessCmd struct {
	deps ProcessDeps

	companyName  string
	profile      string
	profilesPath string
	configPath   string
	endpoint     string
	download     []string
	sink         string
	outDir       string
	pdfPath      string
	format       string
	tab          string
}

func NewProcessCmd(deps ProcessDeps) *cobra.Command {
	pc := &ProcessCmd{deps: deps}
	cmd := &cobra.Command{
		Use:   "process [policy-file]",
		Short: "Upload a policy file and render the processed report",
		Args:  cobra.MaximumNArgs(1),
		RunE:  pc.run,
	}

	cmd.Flags().StringVar(&pc.companyName, "company", "", "Company name sent with the file")
	cmd.Flags().StringVar(&pc.profile, "profile", "", "Profile from the profiles file to use for defaults")
	cmd.Flags().StringVar(&pc.profilesPath, "profiles-file", "", "Path to the profiles file (default is $HOME/.policyreportcfg)")
	cmd.Flags().StringVarP(&pc.configPath, "config", "c", "", "Path to the YAML config file")
	cmd.Flags().StringVar(&pc.endpoint, "endpoint", "", "Backend process URL (overrides profile and config)")
	cmd.Flags().StringSliceVar(&pc.download, "download", nil, "Downloads to save: excel, json, csv")
	cmd.Flags().StringVar(&pc.sink, "sink", "", "Where downloads go: file or s3 (default from config)")
	cmd.Flags().StringVar(&pc.outDir, "out", "", "Directory for the file sink (default from config)")
	cmd.Flags().StringVar(&pc.pdfPath, "pdf", "", "Also write a PDF print view to this path")
	cmd.Flags().StringVar(&pc.format, "format", FormatText, "Output format: text or table")
	cmd.Flags().StringVar(&pc.tab, "tab", "", "Print only this panel (results, metrics, formulas, extracted, parsed, calculated, explanations)")

	return cmd
}

func (pc *ProcessCmd) run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(pc.configPath)
	if err != nil {
		return err
	}

	logger := logging.NewConsole(cmd.ErrOrStderr(), cfg.Log.Level)
	ctx := logger.WithContext(cmd.Context())

	if pc.format != FormatText && pc.format != FormatTable {
		return fmt.Errorf("invalid format: %s (must be text or table)", pc.format)
	}

	var tab render.Tab
	if pc.tab != "" {
		if tab, err = render.ParseTab(pc.tab); err != nil {
			return err
		}
	}

	kinds := make([]downloads.Kind, 0, len(pc.download))
	for _, d := range pc.download {
		kind, err := downloads.ParseKind(d)
		if err != nil {
			return err
		}
		kinds = append(kinds, kind)
	}

	endpoint := cfg.Backend.URL
	companyName := pc.companyName
	if pc.profile != "" {
		profile, err := pc.loadProfile(cmd)
		if err != nil {
			return err
		}
		if profile.Endpoint != "" {
			endpoint = profile.Endpoint
		}
		if companyName == "" {
			companyName = profile.CompanyName
		}
	}
	if pc.endpoint != "" {
		endpoint = pc.endpoint
	}

	var file *domain.PolicyFile
	if len(args) == 1 {
		file, err = readPolicyFile(args[0])
		if err != nil {
			return err
		}
	}

	view, err := pc.deps.ViewFactory(pc.format, tab)
	if err != nil {
		return err
	}

	ctrl := uploader.NewController(pc.deps.ProcessorFactory(endpoint), view)
	input := uploader.Input{CompanyName: companyName, File: file}
	if !ctrl.Enabled(input) {
		logger.Debug().Msg("no policy file selected, nothing to process")
		return nil
	}

	report, err := ctrl.Submit(ctx, input)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReported, err)
	}
	if r, ok := view.(interface{ Err() error }); ok && r.Err() != nil {
		return r.Err()
	}

	if len(kinds) > 0 {
		settings := cfg.Downloads.SinkSettings()
		if pc.outDir != "" {
			settings.Dir = pc.outDir
		}
		sinkName := cfg.Downloads.Sink
		if pc.sink != "" {
			sinkName = pc.sink
		}
		sink, err := pc.deps.Sinks.Create(ctx, sinkName, settings)
		if err != nil {
			return fmt.Errorf("failed to create %s sink: %w", sinkName, err)
		}
		if err := SaveDownloads(ctx, sink, report, kinds, cmd.OutOrStdout()); err != nil {
			return err
		}
	}

	if pc.pdfPath != "" {
		if err := writePDF(pc.pdfPath, render.Render(report)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "PDF written to %s\n", pc.pdfPath)
	}

	return nil
}

func (pc *ProcessCmd) loadProfile(cmd *cobra.Command) (*config.Profile, error) {
	path := pc.profilesPath
	if path == "" {
		path = config.DefaultProfilesPath()
	}
	registry, err := config.NewRegistry(path)
	if err != nil {
		return nil, err
	}
	return registry.GetProfile(cmd.Context(), pc.profile)
}

func readPolicyFile(path string) (*domain.PolicyFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	return &domain.PolicyFile{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Content:     content,
	}, nil
}

func writePDF(path string, page render.Page) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create pdf file: %w", err)
	}
	if err := render.WritePDF(page, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

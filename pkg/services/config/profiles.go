package config

import (
	"context"
	"fmt"
	"os/user"
	"path/filepath"

	"gopkg.in/ini.v1"
)

const (
	ProfilesFileName = ".policyreportcfg"
	DefaultProfile   = "default"
)

// Profile is a named set of submission defaults. An empty Endpoint leaves
// the configured backend URL in place.
type Profile struct {
	Name        string
	CompanyName string
	Endpoint    string
}

type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetProfile(ctx context.Context, name string) (*Profile, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

// DefaultProfilesPath returns $HOME/.policyreportcfg.
func DefaultProfilesPath() string {
	usr, err := user.Current()
	if err != nil {
		return ProfilesFileName
	}
	return filepath.Join(usr.HomeDir, ProfilesFileName)
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles from %s: %w", path, err)
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetProfile(_ context.Context, name string) (*Profile, error) {
	if name == "" {
		name = DefaultProfile
	}
	section, err := cr.cfg.GetSection(name)
	if err != nil || len(section.Keys()) == 0 {
		return nil, fmt.Errorf("profile %s not found", name)
	}

	return &Profile{
		Name:        name,
		CompanyName: section.Key("company_name").String(),
		Endpoint:    section.Key("endpoint").String(),
	}, nil
}

package terminal

import (
	"io"
	"os"

	"github.com/de-tools/policy-report/pkg/runtime/terminal/commands"
	"github.com/de-tools/policy-report/pkg/runtime/terminal/export"
	"github.com/de-tools/policy-report/pkg/services/downloads"
	"github.com/de-tools/policy-report/pkg/services/render"
	"github.com/de-tools/policy-report/pkg/services/uploader"
	"github.com/de-tools/policy-report/pkg/store/client"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	opts    Options
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Sinks            downloads.Registry
	ProcessorFactory func(endpoint string) client.Processor
	Output           io.Writer
	Status           io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Status == nil {
		opts.Status = os.Stderr
	}
	if opts.Sinks == nil {
		opts.Sinks = downloads.DefaultRegistry()
	}
	if opts.ProcessorFactory == nil {
		opts.ProcessorFactory = func(endpoint string) client.Processor {
			return client.NewProcessor(endpoint, nil)
		}
	}

	cli := &CLI{opts: opts}
	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// Root exposes the command tree, mainly for tests.
func (cli *CLI) Root() *cobra.Command {
	return cli.rootCmd
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "policy-report",
		Short:         "Upload insurance policy files and render the processed report",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(cli.opts.Output)
	cmd.SetErr(cli.opts.Status)

	cmd.AddCommand(commands.NewProcessCmd(commands.ProcessDeps{
		Sinks:            cli.opts.Sinks,
		ProcessorFactory: cli.opts.ProcessorFactory,
		ViewFactory:      cli.newView,
	}))
	cmd.AddCommand(commands.NewProfilesCmd())
	cmd.AddCommand(commands.NewInspectCmd())

	return cmd
}

func (cli *CLI) newView(format string, tab render.Tab) (uploader.View, error) {
	var reporter PageReporter
	switch format {
	case commands.FormatTable:
		reporter = export.NewReporter(cli.opts.Output)
	default:
		reporter = NewReporter(cli.opts.Output)
	}
	return NewView(cli.opts.Status, reporter, tab)
}

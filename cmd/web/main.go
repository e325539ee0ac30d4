package main

import (
	"fmt"
	"net"
	"os"

	"github.com/de-tools/policy-report/pkg/runtime/logging"
	"github.com/de-tools/policy-report/pkg/server"
	"github.com/de-tools/policy-report/pkg/services/config"
	"github.com/de-tools/policy-report/pkg/store/client"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web UI for the policy report processor",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to the YAML config file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.Log.Level)

	host := cfg.Server.Host
	if v := os.Getenv("SERVER_HOST"); v != "" {
		host = v
	}
	port := cfg.Server.Port
	if v := os.Getenv("SERVER_PORT"); v != "" {
		port = v
	}

	logger.Info().Msgf("Forwarding uploads to `%s`", cfg.Backend.URL)

	api := server.NewWebAPI(logger, server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Processor: client.NewProcessor(cfg.Backend.URL, nil),
		},
	})

	return api.Start()
}

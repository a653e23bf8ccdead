package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/printkit/gpost/pkg/processor"
	"github.com/printkit/gpost/pkg/script"
	"github.com/printkit/gpost/pkg/serve"
	"github.com/spf13/cobra"
)

var (
	serveEndGCodePath string
	servePlaceholders []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as streaming server for host integration",
	Long: `Run gpost as a long-lived streaming server that accepts process requests
via stdin and writes results via stdout using NDJSON format.

This mode is designed for slicer and print-host integrations. The process
loads the builtin presets once at startup and handles requests until stdin
closes or SIGTERM is received.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveEndGCodePath, "end-gcode", "", "File holding the default machine end G-code")
	serveCmd.Flags().StringArrayVar(&servePlaceholders, "placeholder", nil, "Default placeholder value as name=value (repeatable)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	presets, err := script.NewLoader().LoadBuiltinScripts()
	if err != nil {
		return err
	}

	placeholders, err := buildPlaceholders(serveEndGCodePath, servePlaceholders)
	if err != nil {
		return err
	}

	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	// Create and run server
	srv := serve.NewServer(serve.Config{
		Processor: processor.Config{
			Logger:       newLogger(cmd.ErrOrStderr()),
			Placeholders: placeholders,
		},
		Presets: presets,
	}, cmd.InOrStdin(), cmd.OutOrStdout())
	return srv.Run(ctx)
}

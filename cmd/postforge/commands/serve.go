package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/postforge/postforge/errors"
	"github.com/postforge/postforge/logger"
	"github.com/postforge/postforge/server"
)

// ServeCmd starts the postforge operator server
var ServeCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Start the operator HTTP API and WebSocket event server",
	Long: `Launch the postforge server: a JSON HTTP API over the content pipeline,
text exports of the latest results, and a WebSocket stream of run events.
The recurring job is controlled through the API; nothing is generated or
published until an operator asks for it.`,
	RunE: runServe,
}

var servePort int

func init() {
	ServeCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (default: server.port config, 8878)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Get verbosity flag - default to 1 (Info) for server use
	verbosity, _ := cmd.Flags().GetCount("verbose")
	if verbosity == 0 {
		verbosity = 1
	}

	st, err := buildStack(verbosity)
	if err != nil {
		return err
	}

	port := servePort
	if port == 0 {
		port = st.cfg.GetServerPort()
	}

	srv, err := server.NewServer(server.Config{
		Agent:          st.agent,
		Controller:     st.controller,
		Usage:          st.textgen,
		AllowedOrigins: st.cfg.GetServerAllowedOrigins(),
		Verbosity:      verbosity,
		Logger:         logger.Logger.Named("server"),
	})
	if err != nil {
		return errors.Wrap(err, "failed to create server")
	}

	// The server pushes run events to connected clients
	st.agent.SetNotifier(srv)

	printStartupBanner(verbosity, st.cfg.WordPress.Domain, st.controller.Interval())

	// Start server in background
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(port)
	}()

	// Wait for shutdown signal (Ctrl+C)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		// Server failed to start or stopped unexpectedly
		return errors.Wrap(err, "server failed to start")
	case <-sigChan:
		// First Ctrl+C - graceful shutdown
		pterm.Info.Println("\nShutting down gracefully (press Ctrl+C again to force)...")

		shutdownDone := make(chan error, 1)
		go func() {
			shutdownDone <- srv.Stop()
		}()

		// Wait for either shutdown completion or second Ctrl+C
		select {
		case err := <-shutdownDone:
			if err != nil {
				return fmt.Errorf("shutdown error: %w", err)
			}
			pterm.Success.Println("Server stopped cleanly")
			return nil
		case <-sigChan:
			// Second Ctrl+C - force immediate exit
			pterm.Warning.Println("\nForce shutdown - exiting immediately")
			os.Exit(1)
			return nil // unreachable
		}
	}
}

package commands

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/postforge/postforge/agent"
	"github.com/postforge/postforge/agent/schedule"
	"github.com/postforge/postforge/logger"
)

// RunCmd runs the recurring blog job in the foreground
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the recurring blog job in the foreground",
	Long: `Start the scheduled blog job and keep it in the foreground until
interrupted. Each iteration generates a post for the topic and keywords
and publishes it to the configured WordPress site. The first iteration
starts immediately; later ones follow the configured interval.

Stopping is graceful: the first Ctrl+C lets an in-flight iteration finish,
a second one exits immediately.

Example:
  postforge run -t "vector databases" -k embeddings -k search
  postforge run -t "vector databases" -k embeddings --interval 1h`,
	RunE: runRun,
}

var (
	runTopic    string
	runKeywords []string
	runInterval time.Duration
)

func init() {
	RunCmd.Flags().StringVarP(&runTopic, "topic", "t", "", "Blog topic to write about (required)")
	RunCmd.Flags().StringSliceVarP(&runKeywords, "keywords", "k", nil, "Keywords to weave into the post (required, repeatable)")
	RunCmd.Flags().DurationVar(&runInterval, "interval", 0, "Time between runs (default: schedule.interval_seconds config, 30m)")
	RunCmd.MarkFlagRequired("topic")
	RunCmd.MarkFlagRequired("keywords")
}

func runRun(cmd *cobra.Command, args []string) error {
	verbosity, _ := cmd.Flags().GetCount("verbose")
	if verbosity == 0 {
		verbosity = 1
	}

	st, err := buildStack(verbosity)
	if err != nil {
		return err
	}

	ctrl := st.controller
	if runInterval > 0 {
		ctrl = schedule.NewController(st.agent, runInterval, logger.Logger.Named("schedule"))
	}

	printStartupBanner(verbosity, st.cfg.WordPress.Domain, ctrl.Interval())

	ctrl.Start(agent.JobSpec{Topic: runTopic, Keywords: runKeywords})
	pterm.Info.Printf("Recurring job started: %q every %s\n", runTopic, ctrl.Interval())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// First Ctrl+C - let the in-flight iteration finish
	pterm.Info.Println("\nStopping after the current iteration completes (press Ctrl+C again to force)...")

	done := make(chan struct{})
	go func() {
		if ctrl.Stop() {
			ctrl.Wait()
		}
		close(done)
	}()

	select {
	case <-done:
		pterm.Success.Printf("Stopped after %d run(s)\n", ctrl.Runs())
		return nil
	case <-sigChan:
		// Second Ctrl+C - force immediate exit
		pterm.Warning.Println("\nForce shutdown - exiting immediately")
		os.Exit(1)
		return nil // unreachable
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/postforge/postforge/cmd/postforge/commands"
	"github.com/postforge/postforge/config"
	"github.com/postforge/postforge/logger"
)

var rootCmd = &cobra.Command{
	Use:   "postforge",
	Short: "postforge - autonomous blog generation and publishing agent",
	Long: `postforge - an autonomous content agent.

postforge drafts blog posts with a generative text backend, publishes them
to a WordPress site, and adapts each post for social media channels. It can
run as a recurring scheduled job, as an operator server, or as one-shot
commands.

Available commands:
  run      - Run the recurring blog job in the foreground
  serve    - Start the operator HTTP API and WebSocket event server
  generate - Generate one blog post (optionally publish it)
  social   - Generate social media posts for a blog post
  plan     - Generate a weekly content plan from a business plan
  version  - Show version information

Examples:
  postforge generate -t "vector databases" -k embeddings -k search
  postforge generate -t "vector databases" -k embeddings --publish
  postforge run -t "vector databases" -k embeddings --interval 30m
  postforge serve                          # Operator API on :8878
  postforge social --title "Why We Cache" -t caching -c x -c linkedin
  postforge plan "Artisanal cheese subscriptions for remote teams"`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		// Long-running commands default to progress output; one-shots print
		// their result and stay quiet unless asked.
		if verbosity == 0 && (cmd.Name() == "serve" || cmd.Name() == "run") {
			verbosity = 1
		}

		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		if err := logger.InitializeWithLevel(jsonLogs, logger.VerbosityToLevel(verbosity)); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		// POSTFORGE_LOG_THEME wins inside Initialize; the config file fills
		// the gap when the env var is unset.
		if theme := config.GetString("server.log_theme"); theme != "" && os.Getenv("POSTFORGE_LOG_THEME") == "" {
			logger.SetTheme(theme)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON instead of console lines")

	rootCmd.AddCommand(commands.RunCmd)
	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.SocialCmd)
	rootCmd.AddCommand(commands.PlanCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	err := rootCmd.Execute()
	logger.Cleanup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

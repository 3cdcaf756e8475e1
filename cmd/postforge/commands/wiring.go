package commands

import (
	"github.com/postforge/postforge/agent"
	"github.com/postforge/postforge/agent/schedule"
	"github.com/postforge/postforge/ai/textgen"
	"github.com/postforge/postforge/config"
	"github.com/postforge/postforge/content"
	"github.com/postforge/postforge/errors"
	"github.com/postforge/postforge/logger"
	"github.com/postforge/postforge/social"
	"github.com/postforge/postforge/wordpress"
)

// stack is the wired pipeline every command drives: configuration, the
// text-generation client, the agent over it, and the schedule controller.
type stack struct {
	cfg        *config.Config
	textgen    *textgen.Client
	agent      *agent.Agent
	controller *schedule.Controller
}

// buildStack loads and validates configuration, then wires the pipeline.
// Missing secrets fail here, before any command logic runs. verbosity is
// the -v flag count; it gates trace and full-body logging in the clients.
func buildStack(verbosity int) (*stack, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.Logger

	tg := textgen.NewClient(textgen.Config{
		APIKey:            cfg.TextGen.APIKey,
		BaseURL:           cfg.TextGen.GetBaseURL(),
		Model:             cfg.TextGen.GetModel(),
		Temperature:       cfg.TextGen.Temperature,
		MaxTokens:         cfg.TextGen.MaxTokens,
		Timeout:           cfg.TextGen.Timeout(),
		RequestsPerMinute: cfg.TextGen.RequestsPerMinute,
		Verbosity:         verbosity,
		Logger:            log.Named("textgen"),
	})

	generator := content.NewGenerator(tg, log.Named("content"))

	publisher, err := wordpress.NewClient(wordpress.Config{
		Domain:            cfg.WordPress.Domain,
		Username:          cfg.WordPress.Username,
		AppPassword:       cfg.WordPress.AppPassword,
		Timeout:           cfg.WordPress.Timeout(),
		AllowPrivateHosts: cfg.WordPress.AllowPrivateHosts,
		Logger:            log.Named("wordpress"),
	})
	if err != nil {
		return nil, err
	}

	adapter := social.NewAdapter(generator, social.RetryPolicy{
		MaxAttempts: cfg.Social.GetMaxRetries(),
		Delay:       cfg.Social.RetryDelay(),
	}, log.Named("social"))

	ag := agent.New(agent.Config{
		Generator:   generator,
		Publisher:   publisher,
		Social:      adapter,
		HistorySize: cfg.Agent.GetHistorySize(),
		Logger:      log.Named("agent"),
	})

	ctrl := schedule.NewController(ag, cfg.Schedule.Interval(), log.Named("schedule"))

	return &stack{
		cfg:        cfg,
		textgen:    tg,
		agent:      ag,
		controller: ctrl,
	}, nil
}

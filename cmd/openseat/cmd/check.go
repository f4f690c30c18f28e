package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MaxSteins36/OpenSeat/internal/banner"
	"github.com/MaxSteins36/OpenSeat/internal/config"
	"github.com/MaxSteins36/OpenSeat/internal/engine"
	"github.com/MaxSteins36/OpenSeat/internal/metrics"
	"github.com/MaxSteins36/OpenSeat/internal/notify"
	"github.com/MaxSteins36/OpenSeat/pkg/logger"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one availability check and exit",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	// Local development keeps credentials in a .env file, like the deploy
	// environment keeps them in secrets. Absence is not an error.
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	// Credentials are checked before any network call: without them the
	// failure path could not alert anyone either.
	if !cfg.Pushover.Configured() {
		log.Error("PUSHOVER_USER_KEY and PUSHOVER_API_TOKEN must be set")
		return errors.New("pushover credentials not set")
	}

	client := banner.NewSSBClient(
		banner.WithBaseURL(cfg.Banner.BaseURL),
		banner.WithUserAgent(cfg.Banner.UserAgent),
		banner.WithTimeout(cfg.Banner.Timeout),
	)

	notifier := notify.NewPushoverNotifier(
		cfg.Pushover.APIToken,
		cfg.Pushover.UserKey,
		notify.WithEndpoint(cfg.Pushover.Endpoint),
		notify.WithLogger(log),
	)

	eng := engine.NewEngine(
		client,
		notifier,
		engine.WithLogger(log),
		engine.WithExclusions(engine.RulesFromConfig(cfg.Watch.Exclusions)),
	)

	checkErr := eng.RunCheck(cmd.Context(), cfg.Watch)

	pushMetrics(cfg, log)

	return checkErr
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Default()
	}

	// Flag and OPENSEAT_* env overrides beat the file.
	if term := viper.GetString("term"); term != "" {
		cfg.Watch.Term = term
	}
	if course := viper.GetString("course"); course != "" {
		cfg.Watch.Course = course
	}

	return cfg, nil
}

// pushMetrics ships run metrics to the configured Pushgateway. Failures
// are logged only; metrics must never change the check's exit code.
func pushMetrics(cfg *config.Config, log *slog.Logger) {
	if cfg.Metrics.PushgatewayURL == "" {
		return
	}
	if err := metrics.Push(cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); err != nil {
		log.Warn("metrics push failed", "error", err)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rewired-gh/churnoracle/internal/analysis"
	"github.com/rewired-gh/churnoracle/internal/artifact"
	"github.com/rewired-gh/churnoracle/internal/config"
	"github.com/rewired-gh/churnoracle/internal/dashboard"
	"github.com/rewired-gh/churnoracle/internal/logger"
	"github.com/rewired-gh/churnoracle/internal/telegram"
)

// dashboardLogFile keeps log output off the terminal the dashboard draws on.
const dashboardLogFile = "churnoracle.log"

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "churnoracle",
	Short: "Customer churn & retention strategy recommender",
	Long: `churnoracle scores a customer's churn risk with a pre-trained classifier
and recommends a retention strategy.

Run without arguments to open the interactive dashboard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		logFile := cfg.Logging.File
		if logFile == "" && cmd == cmd.Root() {
			logFile = dashboardLogFile
		}
		if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format, logFile); err != nil {
			return err
		}
		logger.Info("Configuration loaded from %s", configPath)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

var telegramCmd = &cobra.Command{
	Use:   "telegram",
	Short: "Serve /analyze commands over Telegram",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTelegram()
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the model artifacts load",
	RunE: func(cmd *cobra.Command, args []string) error {
		session := loadSession()
		if !session.Available() {
			loadErr := session.LoadErr()
			fmt.Fprintf(cmd.OutOrStdout(), "Unavailable: %s\n%v\n", artifact.UnavailableMessage, loadErr)
			return fmt.Errorf("artifacts unavailable (%s)", loadErr.Kind())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Loaded: %s, %s\n", cfg.Artifacts.ModelPath, cfg.Artifacts.FeaturesPath)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(telegramCmd, checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadSession loads the artifacts once and wraps the outcome in a session.
// A failed load still yields a usable, degraded session.
func loadSession() *analysis.Session {
	outcome := artifact.Load(artifact.Paths{
		Model:    cfg.Artifacts.ModelPath,
		Features: cfg.Artifacts.FeaturesPath,
	})
	if loadErr := outcome.Err(); loadErr != nil {
		logger.Error("Artifacts unavailable (%s): %v", loadErr.Kind(), loadErr)
	} else {
		logger.Info("Loaded model %s and feature list %s", cfg.Artifacts.ModelPath, cfg.Artifacts.FeaturesPath)
	}
	return analysis.NewSession(outcome)
}

func runDashboard() error {
	session := loadSession()
	styles := dashboard.NewStyles(dashboard.ThemeByName(cfg.Dashboard.Theme))
	model := dashboard.New(session, cfg.DefaultInput(), styles)

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}

func runTelegram() error {
	if !cfg.Telegram.Enabled {
		return errors.New("telegram is disabled; set telegram.enabled to true")
	}

	session := loadSession()
	client, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase, session)
	if err != nil {
		return fmt.Errorf("failed to initialize Telegram client: %w", err)
	}
	logger.Info("Telegram client initialized successfully")

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client.ListenForCommands(ctx)
	logger.Info("Service stopped")
	return nil
}

package cmd

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ritualdetail/slotbook/internal/booking"
	"github.com/ritualdetail/slotbook/internal/catalog"
	"github.com/ritualdetail/slotbook/internal/config"
	"github.com/ritualdetail/slotbook/internal/logging"
	"github.com/ritualdetail/slotbook/internal/ui"
	"github.com/ritualdetail/slotbook/internal/workflow"
)

var (
	cfgFile     string
	outboxFile  string
	webhookURL  string
	catalogFile string
	resetPolicy string
	logLevel    string
	await       bool
	cfg         *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "slotbook",
	Short: "Book a vehicle detailing slot from the terminal",
	Long: `Slotbook is a terminal booking desk for an on-demand vehicle detailing
service: pick a future date, enter contact and vehicle details, and hand the
booking to the outbox file and, when configured, a webhook.`,
	PersistentPreRunE: loadConfig,
	RunE:              runTUI,
	SilenceUsage:      true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "Path to config file")
	flags.StringVarP(&outboxFile, "outbox", "o", "", "Bookings outbox file (JSON lines)")
	flags.StringVar(&webhookURL, "webhook", "", "URL that receives each booking as JSON")
	flags.StringVar(&catalogFile, "catalog", "", "YAML file with service packages and prices")
	flags.StringVar(&resetPolicy, "reset-policy", "", "What to clear after a confirmation: none, selection, record, all")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error, off")
	flags.BoolVar(&await, "await", false, "Wait for the booking to be accepted before confirming")
}

// loadConfig reads the rc file and lets flags override it.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("outbox") {
		cfg.OutboxFile = outboxFile
	}
	if flags.Changed("webhook") {
		cfg.WebhookURL = webhookURL
	}
	if flags.Changed("catalog") {
		cfg.CatalogFile = catalogFile
	}
	if flags.Changed("await") {
		cfg.AwaitSubmission = await
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("reset-policy") {
		p, err := workflow.ParseResetPolicy(resetPolicy)
		if err != nil {
			return err
		}
		cfg.ResetPolicy = p
	}
	return nil
}

// loadCatalog reads the configured catalog and applies a currency override.
func loadCatalog() (*catalog.Catalog, error) {
	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}
	if cfg.Currency != "" {
		cat.Currency = cfg.Currency
	}
	return cat, nil
}

// buildPort chains the webhook, when one is configured, ahead of the outbox so
// only bookings the webhook accepted are recorded locally.
func buildPort(outbox *booking.Outbox) booking.Port {
	port := booking.NewMulti()
	if cfg.WebhookURL != "" {
		port.Add(booking.NewWebhook(cfg.WebhookURL, cfg.WebhookTimeout))
	}
	port.Add(outbox)
	return port
}

func runTUI(cmd *cobra.Command, args []string) error {
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer logger.Sync()

	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	outboxPath, err := filepath.Abs(cfg.OutboxFile)
	if err != nil {
		return fmt.Errorf("resolve outbox path: %w", err)
	}
	outbox := booking.NewOutbox(outboxPath)

	watcher, err := booking.NewWatcher(outboxPath, logger)
	if err != nil {
		logger.Warn("outbox watcher unavailable", zap.Error(err))
		watcher = nil
	} else {
		defer watcher.Close()
	}

	machine := workflow.New(buildPort(outbox), workflow.Options{
		ResetPolicy:     cfg.ResetPolicy,
		AwaitSubmission: cfg.AwaitSubmission,
		Retry:           cfg.RetryPolicy(),
		Logger:          logger,
	})

	logger.Info("starting",
		zap.String("outbox", outboxPath),
		zap.Bool("webhook", cfg.WebhookURL != ""),
		zap.Stringer("reset_policy", cfg.ResetPolicy),
		zap.Bool("await", cfg.AwaitSubmission))

	model := ui.NewModel(ui.Options{
		Config:  cfg,
		Machine: machine,
		Catalog: cat,
		Outbox:  outbox,
		Watcher: watcher,
		Logger:  logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	return nil
}

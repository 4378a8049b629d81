package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/FundamentalEcomLLC/Smartbot/internal/api"
	"github.com/FundamentalEcomLLC/Smartbot/internal/config"
	"github.com/FundamentalEcomLLC/Smartbot/internal/logging"
	"github.com/FundamentalEcomLLC/Smartbot/internal/notify"
	"github.com/FundamentalEcomLLC/Smartbot/internal/session"
	"github.com/FundamentalEcomLLC/Smartbot/internal/storage"
	"github.com/FundamentalEcomLLC/Smartbot/internal/stream"
	"github.com/FundamentalEcomLLC/Smartbot/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type flags struct {
	botID   string
	apiBase string
	src     string
	html    string
	attrs   map[string]string

	storage        string
	tabID          string
	preset         string
	pageURL        string
	notify         bool
	logFile        string
	pageBackground string
	saveConfig     bool
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:           "smartbot-widget",
		Short:         "Run the Smartbot chat widget in the terminal",
		Long:          "Mounts the chat widget described by an embed tag, with the terminal standing in for the hosting page.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.botID, "bot-id", "", "bot identifier (data-bot-id)")
	fl.StringVar(&f.apiBase, "api-base", "", "API base URL (data-api-base)")
	fl.StringVar(&f.src, "src", "", "widget script src; its origin is the default API base")
	fl.StringVar(&f.html, "html", "", "read the embed tag from an HTML file instead of flags")
	fl.StringToStringVar(&f.attrs, "attr", nil, "extra embed attributes, e.g. data-auto-open-delay=500")
	fl.StringVar(&f.storage, "storage", "", "tab storage backend: memory, file or sqlite")
	fl.StringVar(&f.tabID, "tab", "", "tab id; reuse one to resume that tab")
	fl.StringVar(&f.preset, "preset", "", "initial panel size: compact, comfort or expanded")
	fl.StringVar(&f.pageURL, "page-url", "", "page URL reported to the backend")
	fl.BoolVar(&f.notify, "notify", false, "desktop notification when the inactivity warning fires in the background")
	fl.StringVar(&f.logFile, "log-file", "", "log file path")
	fl.StringVar(&f.pageBackground, "page-background", "", "page background color (CSS); probed from the terminal when empty")
	fl.BoolVar(&f.saveConfig, "save-config", false, "write the effective settings to the config file before starting")

	return cmd
}

func run(cmd *cobra.Command, f flags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg, f)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if f.saveConfig {
		if err := config.Save(cfg); err != nil {
			return err
		}
	}

	log, logCloser, err := logging.NewFile(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	embed, err := loadEmbed(f, cfg.PageURL, log)
	if err != nil {
		log.Error().Err(err).Msg("widget not mounted")
		return err
	}

	tabID := cfg.EnsureTabID()
	log = log.With().Str("bot_id", embed.BotID).Str("tab_id", tabID).Logger()

	store, closeStore, err := openStore(cfg.Storage, tabID)
	if err != nil {
		// Unavailable storage degrades to memory, like a browser with
		// storage disabled.
		log.Debug().Err(err).Str("storage", cfg.Storage).Msg("falling back to memory storage")
		store, closeStore = storage.NewMemory(), func() {}
	}
	defer closeStore()
	tab := storage.NewTabState(storage.NewSafe(store, log), embed.BotID)

	client := api.NewClient(embed.APIBase, embed.BotID, nil, log)
	sessions := session.NewController(client, tab, log)

	background := f.pageBackground
	if background == "" {
		background = ui.ProbeBackground(termenv.NewOutput(os.Stdout))
	}

	app := ui.NewApp(ui.Options{
		Embed:          embed,
		Settings:       cfg,
		Chat:           stream.FromClient(client),
		Sessions:       sessions,
		Tab:            tab,
		Notifier:       notify.New(cfg.Notifications),
		Log:            log,
		PageBackground: background,
		Version:        version,
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus())
	_, runErr := p.Run()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.BeaconDrainDuration())
	defer cancel()
	if !client.Drain(ctx) {
		log.Warn().Msg("exited before all teardowns were delivered")
	}
	return runErr
}

// applyFlags layers explicitly set flags over the file and environment
// settings.
func applyFlags(cmd *cobra.Command, cfg *config.Config, f flags) {
	changed := cmd.Flags().Changed
	if changed("storage") {
		cfg.Storage = strings.ToLower(strings.TrimSpace(f.storage))
	}
	if changed("tab") {
		cfg.TabID = f.tabID
	}
	if changed("preset") {
		cfg.Preset = f.preset
	}
	if changed("page-url") {
		cfg.PageURL = f.pageURL
	}
	if changed("notify") {
		cfg.Notifications = f.notify
	}
	if changed("log-file") {
		cfg.LogFile = f.logFile
	}
}

func loadEmbed(f flags, pageURL string, log zerolog.Logger) (config.Embed, error) {
	if f.html != "" {
		file, err := os.Open(f.html)
		if err != nil {
			return config.Embed{}, fmt.Errorf("failed to open embed page: %w", err)
		}
		defer file.Close()
		return config.ParseEmbedHTML(file, pageURL, log)
	}

	attrs := make(map[string]string, len(f.attrs)+2)
	for k, v := range f.attrs {
		attrs[k] = v
	}
	if f.botID != "" {
		attrs[config.AttrBotID] = f.botID
	}
	if f.apiBase != "" {
		attrs[config.AttrAPIBase] = f.apiBase
	}
	return config.ParseEmbed(attrs, f.src, pageURL, log)
}

func openStore(kind, tabID string) (storage.Store, func(), error) {
	switch kind {
	case config.StorageFile:
		return storage.NewFileStore(config.TabsDir(), tabID), func() {}, nil
	case config.StorageSQLite:
		db, err := storage.NewSQLite(config.TabsDBPath(), tabID)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	default:
		return storage.NewMemory(), func() {}, nil
	}
}

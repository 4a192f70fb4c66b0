package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"routine2cal/internal/catalog"
	"routine2cal/internal/compile"
	"routine2cal/internal/config"
	"routine2cal/internal/export"
	appLog "routine2cal/internal/log"
	"routine2cal/internal/metrics"
	"routine2cal/internal/selection"
	"routine2cal/internal/web"
)

const (
	calendarName = "BRACU Schedule"
	calendarDesc = "BRAC University Class Schedule"
)

type flagConfig struct {
	configPath string
	listen     string
	logLevel   string
	once       bool
}

func main() {
	// .env is optional; absence is not an error.
	_ = godotenv.Load()

	flags := parseFlags()
	appLog.SetLevel(flags.logLevel)
	appLog.Info("routine2cal starting", "config_path", flags.configPath)

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		appLog.Error("unknown timezone", err, "timezone", conf.Timezone)
		os.Exit(1)
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"semester_weeks", conf.SemesterWeeks,
		"reminder_minutes", conf.ReminderMinutes,
		"refresh", conf.RefreshCron,
	)

	metrics.Register()

	fetcher := catalog.NewFetcher(conf.CacheDir)
	cat := catalog.NewService(fetcher, conf.Feeds.SectionURL, conf.Feeds.TitleURL,
		time.Duration(conf.CatalogCacheTTLMinutes)*time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if flags.once {
		sessions, err := cat.Refresh(ctx)
		if err != nil {
			appLog.Error("catalog refresh failed", err)
			os.Exit(1)
		}
		appLog.Info("catalog fetched", "sessions", len(sessions))
		return
	}

	store := selection.NewStore()
	if err := store.LoadFile(conf.StatePath); err != nil {
		appLog.Error("selection state load failed, starting empty", err, "path", conf.StatePath)
	} else if store.Len() > 0 {
		appLog.Info("selection state restored", "entries", store.Len(), "path", conf.StatePath)
	}

	compiler, err := compile.New(loc, conf.Campus, conf.SemesterWeeks)
	if err != nil {
		appLog.Error("failed to build compiler", err)
		os.Exit(1)
	}
	ics := export.NewICS(loc, conf.TZName, calendarName, calendarDesc)
	exporter := export.NewService(compiler, ics, conf.Campus, "BRACU Class Schedule")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	// Warm the catalog once at startup, then on the configured cron.
	if _, err := cat.Refresh(ctx); err != nil {
		metrics.IncCatalogRefresh("error")
		appLog.Error("initial catalog refresh failed", err)
	} else {
		metrics.IncCatalogRefresh("ok")
	}

	c := cron.New()
	if _, err := c.AddFunc(conf.RefreshCron, func() {
		if _, err := cat.Refresh(ctx); err != nil {
			metrics.IncCatalogRefresh("error")
			appLog.Error("scheduled catalog refresh failed", err)
			return
		}
		metrics.IncCatalogRefresh("ok")
	}); err != nil {
		appLog.Error("invalid refresh cron expression", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	server := web.NewServer(conf, cat, store, exporter, nil)
	if err := web.StartServer(ctx, server); err != nil {
		appLog.Error("HTTP server failed", err)
		os.Exit(1)
	}

	appLog.Info("routine2cal exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "./config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.logLevel, "log-level", "info", "Log level (debug, info, error)")
	flag.BoolVar(&cfg.once, "once", false, "Fetch the catalog once and exit")

	flag.Parse()

	return cfg
}

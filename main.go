package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/max42watt/pv-calculator/config"
	"github.com/max42watt/pv-calculator/database"
	"github.com/max42watt/pv-calculator/econ"
	"github.com/max42watt/pv-calculator/logging"
	"github.com/max42watt/pv-calculator/settings"
	"github.com/max42watt/pv-calculator/task"
	"github.com/max42watt/pv-calculator/www"
)

var Version = "?.?.?"

func main() {
	defer func() {
		if err := recover(); err != nil {
			exitWithError(slog.Default(), fmt.Errorf("application panicked: %v", err))
		} else {
			slog.Default().Info("application is shutting down...")
		}
	}()

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cnfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consoleHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      cnfg.Logging.GetConsoleLevel(),
		TimeFormat: time.RFC3339,
	})
	slog.New(consoleHandler).Debug("pv-calculator is starting...", slog.String("version", Version))

	db, err := database.New(ctx, cnfg.Database.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to connect to database: %v", err))
	}
	defer db.Close()

	logger := slog.New(logging.NewMultiHandler(
		consoleHandler,
		logging.NewSQLiteHandler(db, cnfg.Logging.GetDbLevel(), cnfg.Logging.GetDbAttrsFormat())))
	slog.SetDefault(logger)

	// Now we can use the logger to log database operations into the database itself
	db.SetLogger(logger.With("module", "database"))

	defaults, err := settings.Load(cnfg.Settings.File)
	if err != nil {
		panic(fmt.Sprintf("failed to load expert settings: %v", err))
	}
	manager := settings.NewManager(defaults)

	secret := cnfg.Session.Secret
	if secret == "" {
		secret = ephemeralSecret()
		logger.Warn("no session secret configured, client settings will not survive a restart")
	}
	clients := settings.NewClientStore(secret, cnfg.Session.GetMaxAgeDays())

	tasks := task.NewTasks(db, cnfg)
	tasks.Run()
	defer tasks.Stop()

	server := www.StartServer(db, manager, clients, cnfg.Api, Version)

	if cnfg.Settings.GetWatch() && cnfg.Settings.File != "" {
		watcher, err := settings.NewWatcher(
			logger.With("module", "settings"),
			cnfg.Settings.File,
			func(s econ.ExpertSettings) {
				manager.Set(s)
				server.NotifySettingsUpdated()
			})
		if err != nil {
			panic(fmt.Sprintf("failed to watch settings file: %v", err))
		}
		watcher.Start()
		defer watcher.Close()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-ctx.Done():
			logger.Info("main context done")
		case sig := <-sigCh:
			logger.Info("received signal", slog.Any("signal", sig))
			cancel()
		}
	}()

	server.Run(ctx)
}

// ephemeralSecret makes the session store usable without configuration.
// Cookies signed with it become invalid on the next start.
func ephemeralSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("failed to generate session secret: %v", err))
	}
	return hex.EncodeToString(buf)
}

func exitWithError(logger *slog.Logger, err error) {
	if err != nil {
		logger.Error("application shutting down with error", slog.Any("error", err))
	}
	if syncer, ok := logger.Handler().(interface{ Sync() error }); ok {
		if syncErr := syncer.Sync(); syncErr != nil {
			logger.Error("failed to flush logger", slog.Any("error", syncErr))
		}
	}

	time.Sleep(2 * time.Second)
	os.Exit(1)
}

package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/npereira/centavo/internal/auth"
	"github.com/npereira/centavo/internal/category"
	categoryStore "github.com/npereira/centavo/internal/category/store"
	"github.com/npereira/centavo/internal/config"
	"github.com/npereira/centavo/internal/database"
	centavoHTTP "github.com/npereira/centavo/internal/http"
	balanceHandler "github.com/npereira/centavo/internal/http/balance"
	categoryHandler "github.com/npereira/centavo/internal/http/category"
	entryHandler "github.com/npereira/centavo/internal/http/entry"
	importHandler "github.com/npereira/centavo/internal/http/importcsv"
	reportHandler "github.com/npereira/centavo/internal/http/report"
	userHandler "github.com/npereira/centavo/internal/http/user"
	"github.com/npereira/centavo/internal/importer"
	"github.com/npereira/centavo/internal/ledger"
	ledgerStore "github.com/npereira/centavo/internal/ledger/store"
	"github.com/npereira/centavo/internal/report"
	reportStore "github.com/npereira/centavo/internal/report/store"
	"github.com/npereira/centavo/internal/user"
	userStore "github.com/npereira/centavo/internal/user/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	database.SetRetryDelay(cfg.Retry.Delay)

	db, err := database.New(cfg.ConnectionString(), database.Options{
		MaxOpenConns: cfg.DB.MaxOpenConns,
		MaxIdleConns: cfg.DB.MaxIdleConns,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.Uploads.Dir, 0o755); err != nil {
		slog.Error("failed to create upload dir", "error", err, "dir", cfg.Uploads.Dir)
		os.Exit(1)
	}

	issuer := auth.NewIssuer(
		cfg.Auth.AccessSecret,
		cfg.Auth.RefreshSecret,
		cfg.Auth.AccessTTL,
		cfg.Auth.RefreshTTL,
	)

	var (
		userService     = user.NewService(userStore.New(db), issuer)
		ledgerService   = ledger.NewService(ledgerStore.New(db))
		categoryService = category.NewService(categoryStore.New(db))
		reportService   = report.NewService(reportStore.New(db))
		importService   = importer.NewService()
	)

	var (
		userH     = userHandler.NewHandler(userService, cfg.Uploads.Dir, cfg.App.BaseURL)
		entryH    = entryHandler.NewHandler(ledgerService)
		balanceH  = balanceHandler.NewHandler(userService, ledgerService)
		categoryH = categoryHandler.NewHandler(categoryService)
		reportH   = reportHandler.NewHandler(reportService)
		importH   = importHandler.NewHandler(importService, ledgerService)
	)

	router := centavoHTTP.New(issuer, cfg.Uploads.Dir, userH, entryH, balanceH, categoryH, reportH, importH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

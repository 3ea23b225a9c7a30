package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/tradedesk/internal/bill"
	billStore "github.com/MrJamesThe3rd/tradedesk/internal/bill/store"
	"github.com/MrJamesThe3rd/tradedesk/internal/config"
	"github.com/MrJamesThe3rd/tradedesk/internal/database"
	"github.com/MrJamesThe3rd/tradedesk/internal/export"
	tradeHttp "github.com/MrJamesThe3rd/tradedesk/internal/http"
	billHandler "github.com/MrJamesThe3rd/tradedesk/internal/http/bill"
	exportHandler "github.com/MrJamesThe3rd/tradedesk/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/tradedesk/internal/http/importfile"
	matchingHandler "github.com/MrJamesThe3rd/tradedesk/internal/http/matching"
	remittanceHandler "github.com/MrJamesThe3rd/tradedesk/internal/http/remittance"
	settlementHandler "github.com/MrJamesThe3rd/tradedesk/internal/http/settlement"
	"github.com/MrJamesThe3rd/tradedesk/internal/importer"
	"github.com/MrJamesThe3rd/tradedesk/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/tradedesk/internal/matching/store"
	"github.com/MrJamesThe3rd/tradedesk/internal/remittance"
	remittanceStore "github.com/MrJamesThe3rd/tradedesk/internal/remittance/store"
	"github.com/MrJamesThe3rd/tradedesk/internal/settlement"
	settlementStore "github.com/MrJamesThe3rd/tradedesk/internal/settlement/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.DB.Migrate {
		if err := database.Migrate(db); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	var (
		billService       = bill.NewService(billStore.New(db))
		remittanceService = remittance.NewService(remittanceStore.New(db))
		matchingService   = matching.NewService(matchingStore.New(db))
		importService     = importer.NewService()
		exportService     = export.NewService(billService)
		settlementService = settlement.NewService(
			settlementStore.New(db),
			billService,
			matchingService,
			settlement.NewRefGenerator(cfg.Settlement.IrmPrefix),
		)
	)

	router := tradeHttp.New(tradeHttp.Handlers{
		Bills:       billHandler.NewHandler(billService),
		Remittances: remittanceHandler.NewHandler(remittanceService),
		Import:      importHandler.NewHandler(importService, remittanceService),
		Settlements: settlementHandler.NewHandler(settlementService),
		Matching:    matchingHandler.NewHandler(matchingService),
		Export:      exportHandler.NewHandler(exportService),
	}, tradeHttp.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Timeout:        cfg.Server.Timeout,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr)

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

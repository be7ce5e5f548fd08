package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"roomledger/internal/auth"
	"roomledger/internal/config"
	"roomledger/internal/middleware"
	"roomledger/internal/notify"
	"roomledger/internal/scheduler"
	"roomledger/internal/service"
	"roomledger/internal/storage/sqlite"
	"roomledger/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	if err := auth.EnsureDefaultAdmin(context.Background(), store, cfg.BootstrapAdminPassword); err != nil {
		slog.Error("Failed to ensure default admin", "error", err)
		os.Exit(1)
	}

	var mailer notify.Mailer
	if cfg.SMTP.Host != "" {
		mailer = notify.NewSMTPMailer(cfg.SMTP)
		slog.Info("Email notifications enabled", "smtp_host", cfg.SMTP.Host)
	}
	dispatcher := notify.NewDispatcher(mailer)

	receipts, err := service.NewReceiptStore(cfg.UploadDir)
	if err != nil {
		slog.Error("Failed to initialize receipt storage", "error", err)
		os.Exit(1)
	}

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	router := service.NewRouter(service.Services{
		Auth:        service.NewAuthService(authenticator, jwtManager, store, dispatcher),
		Users:       service.NewUserService(store, authenticator, dispatcher),
		Expenses:    service.NewExpenseService(store, receipts, dispatcher),
		Payments:    service.NewPaymentService(store, dispatcher),
		Summary:     service.NewSummaryService(store),
		Electricity: service.NewElectricityService(store, dispatcher),
	}, jwtManager)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))),
	)

	jobs := scheduler.New(store, dispatcher)
	if err := jobs.Start(cfg.ReminderSchedule); err != nil {
		slog.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer jobs.Stop()

	handler := middleware.Logging(middleware.Metrics(middleware.CORS(router)))
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := ":" + cfg.Port
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

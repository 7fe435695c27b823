package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nerzal/gocloak/v13"
	"github.com/jmoiron/sqlx"
	_ "github.com/joho/godotenv/autoload"
	_ "github.com/lib/pq"

	"github.com/kova98/adwatch.api/config"
	"github.com/kova98/adwatch.api/data"
	"github.com/kova98/adwatch.api/data/repos"
	"github.com/kova98/adwatch.api/detector"
	"github.com/kova98/adwatch.api/enums"
	"github.com/kova98/adwatch.api/handlers"
	"github.com/kova98/adwatch.api/metrics"
	"github.com/kova98/adwatch.api/notifiers"
)

//go:embed data/migrations/*.sql
var embedMigrations embed.FS

func main() {
	config.LoadConfig()

	opts := slog.HandlerOptions{Level: config.Config.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &opts))
	slog.SetDefault(logger)

	mode, err := enums.ParseSearchMode(config.Config.SearchMode)
	if err != nil {
		slog.Error("invalid SEARCH_MODE", "error", err)
		os.Exit(1)
	}

	db, err := sqlx.Connect("postgres", config.Config.PostgresURL)
	if err != nil {
		slog.Error("failed to connect to db", "error", err)
		os.Exit(1)
	}

	db.SetMaxOpenConns(90)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	if err := data.RunMigrations(db.DB, embedMigrations); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	keywordRepo := repos.NewKeywordRepo(db)
	resultRepo := repos.NewResultRepo(db)

	if config.Config.SeedKeywords {
		if doc := detector.ReadDocument(config.Config.KeywordsFile, logger); doc != nil {
			inserted, err := keywordRepo.InsertKeywords(doc.Keywords)
			if err != nil {
				slog.Error("failed to seed keywords", "error", err)
				os.Exit(1)
			}
			slog.Info("seeded keywords", "file", config.Config.KeywordsFile, "inserted", inserted)
		}
	}

	m := metrics.New()
	engines, err := handlers.NewEngineHolder(func() (*detector.Engine, error) {
		doc := detector.ReadDocument(config.Config.KeywordsFile, logger)
		catalog := detector.LoadCatalog(keywordRepo, doc, logger)
		return detector.New(catalog, detector.Options{SearchMode: mode, Logger: logger})
	})
	if err != nil {
		slog.Error("failed to build detector", "error", err)
		os.Exit(1)
	}
	m.SetCatalog(engines.Engine().Catalog())

	var auth *handlers.AuthHandler
	if config.Config.AuthEnabled() {
		auth = handlers.NewAuthHandler(gocloak.NewClient(config.Config.KeycloakURL), config.Config.KeycloakRealm)
	} else {
		slog.Warn("KEYCLOAK_URL or KEYCLOAK_REALM not set, authentication disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if config.Config.AlertsEnabled() {
		mailer := notifiers.NewMailer(
			config.Config.SMTPHost,
			config.Config.SMTPPort,
			config.Config.SMTPFrom,
			config.Config.SMTPPassword,
		)
		notifier := NewNotifier(mailer, resultRepo, m, config.Config.AlertEmail)
		go notifier.Start(ctx)
	}

	detect := handlers.NewDetectHandler(engines, resultRepo, m, logger)
	keywords := handlers.NewKeywordHandler(keywordRepo, engines)
	catalog := handlers.NewCatalogHandler(engines, m, logger)
	results := handlers.NewResultHandler(resultRepo)

	private := func(h handlers.Handler) http.HandlerFunc {
		return public(auth.Private(h))
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /detect", private(detect.Detect))

	mux.HandleFunc("GET /keywords", private(keywords.GetKeywords))
	mux.HandleFunc("POST /keywords", private(keywords.CreateKeyword))
	mux.HandleFunc("POST /catalog/reload", private(catalog.Reload))

	mux.HandleFunc("GET /results", private(results.GetResults))

	mux.Handle("GET /metrics", m.Handler())
	mux.HandleFunc("GET /healthz", public(func(w http.ResponseWriter, r *http.Request) handlers.Result {
		if err := db.PingContext(r.Context()); err != nil {
			return handlers.InternalError(err, "health: ping db")
		}
		return handlers.Ok(map[string]string{"status": "ok"})
	}))

	server := &http.Server{
		Addr:              config.Config.ListenAddr,
		Handler:           withCORS(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sigCh
		slog.Info("Shutting down...")
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shut down server", "error", err)
		}
	}()

	slog.Info("Starting server", "addr", config.Config.ListenAddr, "mode", mode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("failed to start server", "error", err)
	}

	if err := db.Close(); err != nil {
		slog.Error("failed to close database connection", "error", err)
	}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func public(handler handlers.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts := time.Now()
		res := handler(w, r)
		elapsedMs := time.Since(ts).Milliseconds()
		slog.Debug("req", "method", r.Method, "path", r.URL.Path, "code", res.Code, "elapsed", elapsedMs)
		writeResult(w, res)
	}
}

func writeResult(w http.ResponseWriter, res handlers.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.Code)
	if res.Body != nil {
		if err := json.NewEncoder(w).Encode(res.Body); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
	if res.Code == http.StatusInternalServerError && res.Error != nil {
		slog.Error("internal error", "error", res.Error.Error())
	}
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/passagent/passagent-go/internal/agent"
	"github.com/passagent/passagent-go/internal/config"
	"github.com/passagent/passagent-go/internal/crypto"
	"github.com/passagent/passagent-go/internal/handler"
	"github.com/passagent/passagent-go/internal/middleware"
	"github.com/passagent/passagent-go/internal/repository"
	"github.com/passagent/passagent-go/internal/service"
	"github.com/passagent/passagent-go/internal/tool"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	slog.SetDefault(cfg.Logger())
	if envErr != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	policy := crypto.GenerationPolicy{Length: cfg.PasswordLength, IncludeSpecial: cfg.PasswordSpecial}
	if err := policy.Validate(); err != nil {
		slog.Error("invalid password defaults", "error", err)
		os.Exit(1)
	}

	registry, err := tool.NewDefaultRegistry(policy)
	if err != nil {
		slog.Error("failed to build tool registry", "error", err)
		os.Exit(1)
	}

	var runner service.Runner
	if cfg.AgentEnabled() {
		oracle, err := agent.NewOracle(agent.OracleConfig{
			Provider:    cfg.OracleProvider,
			APIKey:      cfg.OracleAPIKey,
			Model:       cfg.OracleModel,
			Temperature: cfg.OracleTemperature,
			BaseURL:     cfg.OracleBaseURL,
		})
		if err != nil {
			slog.Error("failed to configure oracle", "provider", cfg.OracleProvider, "error", err)
			os.Exit(1)
		}
		runner = agent.NewExecutor(oracle, registry, cfg.AgentMaxSteps)
		slog.Info("agent enabled", "provider", cfg.OracleProvider, "max_steps", cfg.AgentMaxSteps)
	} else {
		slog.Warn("no oracle configured, agent runs disabled")
	}

	genHandler := handler.NewGeneratorHandler(service.NewGeneratorService(policy))
	toolHandler := handler.NewToolHandler(service.NewToolService(registry))

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(10, 20))
		r.Post("/api/v1/generate", genHandler.HandleGenerate)
		r.Get("/api/v1/tools", toolHandler.HandleList)
		r.Post("/api/v1/tools/{name}/invoke", toolHandler.HandleInvoke)
	})

	// Auth and agent history need the database.
	db, driver, err := repository.NewDB(cfg.DatabaseDSN)
	if err == nil {
		if err = repository.Migrate(context.Background(), db, driver); err != nil {
			db.Close()
		}
	}
	if err != nil {
		slog.Warn("database unavailable, auth and agent routes disabled", "error", err)
	} else {
		defer db.Close()

		authService := service.NewAuthService(repository.NewUserRepository(db), cfg.JWTSecret, cfg.JWTExpiry)
		authHandler := handler.NewAuthHandler(authService)

		agentService := service.NewAgentService(runner, repository.NewRunRepository(db))
		agentHandler := handler.NewAgentHandler(agentService)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(5, 10))
			r.Post("/api/v1/auth/register", authHandler.HandleRegister)
			r.Post("/api/v1/auth/login", authHandler.HandleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(cfg.JWTSecret))
			r.Get("/api/v1/auth/me", authHandler.HandleMe)

			r.Get("/api/v1/agent/runs", agentHandler.HandleListRuns)
			r.Get("/api/v1/agent/runs/{id}", agentHandler.HandleGetRun)
			r.With(middleware.RateLimit(1, 5)).Post("/api/v1/agent/runs", agentHandler.HandleRun)
		})
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

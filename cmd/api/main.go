// Executável principal da API: carrega a configuração, inicializa dependências e sobe o servidor HTTP.
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marcelojr/rondas-api/internal/app/httpapi"
	"github.com/marcelojr/rondas-api/internal/app/rounds"
	"github.com/marcelojr/rondas-api/internal/platform/clock"
	"github.com/marcelojr/rondas-api/internal/platform/config"
	"github.com/marcelojr/rondas-api/internal/platform/health"
	"github.com/marcelojr/rondas-api/internal/platform/logger"
	"github.com/marcelojr/rondas-api/internal/platform/migrations"
	"github.com/marcelojr/rondas-api/internal/platform/ratelimit"
	postgresstorage "github.com/marcelojr/rondas-api/internal/platform/storage/postgres"
	redisstorage "github.com/marcelojr/rondas-api/internal/platform/storage/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("configuracao invalida", "err", err)
	}

	// Mantemos a conexão compartilhada em todo o ciclo para reaproveitar pool e checar readiness.
	db, err := postgresstorage.Open(ctx, cfg.PostgresDSN())
	if err != nil {
		logger.Fatal("falha ao conectar no postgres", "err", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("falha ao resgatar sql.DB", "err", err)
	}
	defer sqlDB.Close()

	if cfg.AutoMigrate {
		// Rodamos migrations automáticas apenas se habilitado para evitar surpresas em produção.
		if err := migrations.Run(db); err != nil {
			logger.Fatal("falha na migracao automatica", "err", err)
		}
	}

	// Redis atende rate limit e readiness; sem ele as rotas de escrita ficam sem proteção.
	redisClient, err := redisstorage.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("falha ao conectar no redis", "err", err)
	}
	defer redisClient.Close()

	dbRounds := postgresstorage.NewRoundRepository(db)
	dbIssues := postgresstorage.NewIssueRepository(db)
	dbFeedbacks := postgresstorage.NewFeedbackRepository(db)
	clockSystem := clock.NewSystemClock()

	var limiter ratelimit.Limiter = ratelimit.NewNoop()
	if cfg.RateLimitEnabled {
		window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
		limiter = ratelimit.NewRedisLimiter(redisClient, cfg.RateLimitMaxRequests, window, cfg.RateLimitKeyPrefix)
	}

	roundsSvc := rounds.NewService(dbRounds, clockSystem, cfg.DefaultPageSize, cfg.MaxPageSize)
	issuesSvc := rounds.NewIssueService(dbIssues, clockSystem, cfg.DefaultPageSize, cfg.MaxPageSize)
	feedbacksSvc := rounds.NewFeedbackService(dbFeedbacks, clockSystem, cfg.DefaultPageSize, cfg.MaxPageSize)

	mux := http.NewServeMux()
	checker := health.NewChecker(sqlDB, redisClient)

	// HTTP expõe API, health check e métricas que o Prometheus coleta.
	api := httpapi.New(roundsSvc, issuesSvc, feedbacksSvc, limiter, logger.L())
	api.Register(mux)
	mux.HandleFunc("/readyz", checker.ReadyHandler())
	mux.Handle("/metrics", promhttp.Handler())

	logger.Info("api ouvindo", "addr", cfg.HTTPAddress)
	if err := http.ListenAndServe(cfg.HTTPAddress, mux); err != nil {
		logger.Fatal("erro no servidor", "err", err)
	}
}

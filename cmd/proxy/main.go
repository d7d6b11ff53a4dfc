package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/emiliodom/greetings-wall/docs"
	"github.com/emiliodom/greetings-wall/internal/config"
	api "github.com/emiliodom/greetings-wall/internal/http"
	"github.com/emiliodom/greetings-wall/internal/log"
	"github.com/emiliodom/greetings-wall/internal/metrics"
	"github.com/emiliodom/greetings-wall/internal/queue"
	"github.com/emiliodom/greetings-wall/internal/repo"
	"github.com/emiliodom/greetings-wall/internal/security"
)

// @title Greetings Wall Proxy
// @version 0.1.0
// @description CORS/auth proxy between the greetings wall and its NocoDB table.
// @schemes http https
// @BasePath /
func main() {
	cfg := config.Load()

	logger, err := log.Init(cfg.ProdLog)
	if err != nil {
		stdlog.Fatalf("log init: %v", err)
	}
	defer log.Sync()

	metrics.MustRegister()

	noco := repo.NewNocoDB(cfg.NocoDBURL, cfg.NocoDBToken)

	var captcha security.CaptchaVerifier = security.AllowAll{}
	if cfg.HCaptchaSecret != "" {
		captcha = security.NewHCaptcha(cfg.HCaptchaSecret)
	} else {
		logger.Warn("HCAPTCHA_SECRET not set, captcha verification disabled")
	}

	pub := queue.NewNoop()
	if cfg.RabbitURL != "" {
		p, err := queue.NewRabbit(cfg.RabbitURL, "greetings.events")
		if err != nil {
			logger.Fatal("rabbit connect", zap.Error(err))
		}
		pub = p
	}
	defer pub.Close()

	var rds *repo.Redis
	if cfg.RedisAddr != "" {
		rds = repo.NewRedis(cfg.RedisAddr)
		defer rds.Close()
	}

	h := api.NewHandler(noco, captcha, pub, rds)
	r := api.NewRouter(h, cfg.AllowedOrigin, cfg.RateLimitPerMin)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	srvErr := make(chan error, 1)
	go func() { srvErr <- srv.ListenAndServe() }()

	logger.Info("greetings proxy listening",
		zap.String("port", cfg.Port),
		zap.String("origin", cfg.AllowedOrigin))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info("shutting down", zap.String("signal", s.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	case err := <-srvErr:
		logger.Error("server error", zap.Error(err))
	}
}

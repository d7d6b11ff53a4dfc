// Command notifier tails greeting.created events and logs each new wall
// entry, so the site owner sees greetings arrive without polling NocoDB.
package main

import (
	"context"
	"encoding/json"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/emiliodom/greetings-wall/internal/config"
	"github.com/emiliodom/greetings-wall/internal/log"
	"github.com/emiliodom/greetings-wall/internal/queue"
)

func main() {
	cfg := config.LoadNotifier()

	logger, err := log.Init(cfg.ProdLog)
	if err != nil {
		stdlog.Fatalf("log init: %v", err)
	}
	defer log.Sync()

	cons, err := queue.NewConsumer(cfg.RabbitURL, cfg.Exchange, cfg.Queue, cfg.BindKey)
	if err != nil {
		logger.Fatal("rabbit consumer init", zap.Error(err))
	}
	defer cons.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("notifier up",
		zap.String("exchange", cfg.Exchange),
		zap.String("queue", cfg.Queue),
		zap.String("key", cfg.BindKey),
		zap.Int("workers", cfg.Concurrency))

	if err := cons.Consume(ctx, cfg.Concurrency, func(b []byte) error {
		var ev queue.GreetingCreated
		if err := json.Unmarshal(b, &ev); err != nil {
			logger.Warn("bad event payload", zap.Error(err))
			return nil // drop it, redelivery won't help
		}
		logger.Info("new greeting",
			zap.String("message", ev.Message),
			zap.String("feeling", ev.Feeling),
			zap.String("country", ev.CountryCode))
		return nil
	}); err != nil {
		logger.Error("consumer stopped", zap.Error(err))
	}
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"restaurant-orders/internal/config"
	kafkax "restaurant-orders/internal/kafka"
	"restaurant-orders/internal/kitchen"
	"restaurant-orders/internal/orders"
	"restaurant-orders/internal/postgres"
	"restaurant-orders/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("service", cfg.ServiceName+"-kitchen")
	slog.SetDefault(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &kitchen.Service{
		Store: postgres.NewStore(db),
		Redis: rdb,
		Log:   log,
		Name:  cfg.ServiceName + "-kitchen",
	}

	workers := atoiDefault(os.Getenv("KITCHEN_WORKERS"), 4)
	topics := []string{orders.TopicOrderCreated, orders.TopicOrderStatus}
	for _, topic := range topics {
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.KitchenGroup, topic, workers)
		go func(topic string) {
			log.Info("consumer started", "group", cfg.KitchenGroup, "topic", topic, "workers", workers)
			if err := cons.Start(ctx, svc.HandleOrderEvent); err != nil {
				log.Error("consumer exit", "topic", topic, "err", err)
				cancel()
			}
		}(topic)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info("shutting down consumers")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil || i <= 0 {
		return def
	}
	return i
}

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	auction "auction-house/internal/auctionService"
	"auction-house/internal/config"
	"auction-house/internal/notify"
	"auction-house/internal/repository"
	"auction-house/internal/scheduler"
	"auction-house/internal/server"
	"auction-house/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	store := repository.NewMemoryStore()
	notifier := buildNotifier(cfg)

	auctionSvc := auction.NewAuctionService(store, notifier, time.Now)

	sweeper := scheduler.NewSweeper(store, auctionSvc, cfg.SweepInterval, time.Now)
	go sweeper.Run(context.Background())

	router := server.SetupRouter(auctionSvc, cfg.JWTSecret, cfg.AdminPolicy())

	fmt.Printf("Starting auction server on %s...\n", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

// buildNotifier wires the Discord webhook when configured, otherwise events
// are discarded.
func buildNotifier(cfg config.Config) notify.Notifier {
	if cfg.WebhookURL == "" {
		utils.Warn("no webhook URL configured, notifications disabled", nil)
		return notify.NopNotifier{}
	}
	return notify.NewDiscordWebhook(cfg.WebhookURL)
}

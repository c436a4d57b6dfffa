package main

import (
	"fmt"
	"os"

	auctionsvc "reverse-auction/internal/auctionService"
	"reverse-auction/internal/auth"
	bidding "reverse-auction/internal/biddingService"
	"reverse-auction/internal/broadcast"
	"reverse-auction/internal/config"
	"reverse-auction/internal/repository"
	"reverse-auction/internal/server"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := gorm.Open(sqlite.Open(cfg.DBPath+"?_busy_timeout=5000"), &gorm.Config{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	if err := repository.AutoMigrate(db); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to migrate database: %v\n", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	publisher := broadcast.NewRedisPublisher(rdb, cfg.BroadcastPrefix)

	repo := repository.NewGormRepo(db)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	biddingSvc := bidding.NewBiddingService(repo, publisher)
	auctionSvc := auctionsvc.NewAuctionService(repo)

	router := server.SetupRouter(biddingSvc, auctionSvc, tokens)

	fmt.Printf("Starting reverse-auction server on %s...\n", cfg.HTTPAddr)
	if err := router.Run(cfg.HTTPAddr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

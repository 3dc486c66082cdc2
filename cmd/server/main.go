package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/campfire-trpg/campfire/internal/config"
	"github.com/campfire-trpg/campfire/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	graceful := flag.Bool("graceful", true, "wait for running sessions before shutting down")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("config load failed, using defaults: %v", err)
		cfg = config.Default()
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("server init failed: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("shutting down...")
		if *graceful {
			srv.GracefulShutdown(cfg.Room.ShutdownTimeoutDuration())
		} else {
			srv.Shutdown()
		}
		os.Exit(0)
	}()

	log.Println("🔥 campfire server starting...")
	if err := srv.Start(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server failed: %v", err)
	}
}

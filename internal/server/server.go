// Package server is the session gateway: it owns the WebSocket
// listener, the save-snapshot HTTP API and the connection registry, and
// feeds decoded messages to the handler.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/campfire-trpg/campfire/internal/config"
	"github.com/campfire-trpg/campfire/internal/game/room"
	"github.com/campfire-trpg/campfire/internal/server/api"
	"github.com/campfire-trpg/campfire/internal/server/handler"
	"github.com/campfire-trpg/campfire/internal/server/storage"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is checked before the upgrade; see handleWebSocket.
	CheckOrigin: func(r *http.Request) bool { return true },
	// Payloads are small JSON envelopes, compression is not worth the CPU.
	EnableCompression: false,
}

// Server is the WebSocket gateway.
type Server struct {
	config      *config.Config
	redis       *redis.Client
	saveStore   *storage.SaveStore
	roomManager *room.Manager
	handler     *handler.Handler

	clients   map[string]*Client
	clientsMu sync.RWMutex

	originChecker *OriginChecker

	maxConnections int
	semaphore      chan struct{} // caps concurrent connections

	maintenanceMode bool
	maintenanceMu   sync.RWMutex

	httpServer *http.Server
}

// NewServer creates the gateway and verifies the Redis connection.
func NewServer(cfg *config.Config) (*Server, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	s := &Server{
		config:         cfg,
		redis:          rdb,
		saveStore:      storage.NewSaveStore(rdb),
		clients:        make(map[string]*Client),
		originChecker:  NewOriginChecker(cfg.Security.AllowedOrigins),
		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
	}

	s.roomManager = room.NewManager(&cfg.Room)

	s.handler = handler.NewHandler(handler.Deps{
		Server: s,
		Rooms:  s.roomManager,
	})

	return s, nil
}

// Start runs the HTTP listener until it fails or is shut down.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	api.New(s.saveStore).Register(mux)

	go s.monitorStats()

	log.Printf("🚀 server listening on ws://%s/ws (CPUs: %d, max connections: %d)",
		addr, runtime.NumCPU(), s.maxConnections)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second, // Slowloris guard
		IdleTimeout:       60 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

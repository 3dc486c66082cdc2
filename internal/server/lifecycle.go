package server

import (
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/campfire-trpg/campfire/internal/protocol"
	"github.com/campfire-trpg/campfire/internal/protocol/codec"
)

// monitorStats periodically logs server vitals.
func (s *Server) monitorStats() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		log.Printf("📊 [stats] online: %d | goroutines: %d | connections: %d/%d | heap: %.2f MB",
			s.GetOnlineCount(),
			runtime.NumGoroutine(),
			len(s.semaphore),
			s.maxConnections,
			float64(m.Alloc)/1024/1024)
	}
}

// EnterMaintenanceMode stops admitting connections and room creation.
// Running sessions keep playing.
func (s *Server) EnterMaintenanceMode() {
	s.maintenanceMu.Lock()
	s.maintenanceMode = true
	s.maintenanceMu.Unlock()

	s.BroadcastToLobby(codec.MustNewMessage(protocol.MsgError, protocol.ErrorPayload{
		Code:    protocol.ErrCodeMaintenance,
		Message: "👷 Maintenance mode: new rooms are disabled",
	}))

	log.Println("🔧 maintenance mode: new connections and rooms disabled")
}

// IsMaintenanceMode reports whether maintenance mode is on.
func (s *Server) IsMaintenanceMode() bool {
	s.maintenanceMu.RLock()
	defer s.maintenanceMu.RUnlock()
	return s.maintenanceMode
}

// GracefulShutdown enters maintenance mode, waits for running sessions
// to finish (up to timeout) and then shuts down.
func (s *Server) GracefulShutdown(timeout time.Duration) {
	s.EnterMaintenanceMode()

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(s.config.Room.ShutdownCheckIntervalDuration())
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		active := s.roomManager.ActiveSessionCount()
		if active == 0 {
			log.Printf("✅ all sessions finished, closing in %ds", s.config.Room.CleanupDelay)
			break
		}
		log.Printf("⏳ waiting for %d running sessions...", active)
		<-ticker.C
	}

	if active := s.roomManager.ActiveSessionCount(); active > 0 {
		log.Printf("⚠️ shutdown timeout, %d sessions still running, closing anyway", active)
	}

	// Everyone is about to lose their connection, in a room or not.
	s.Broadcast(codec.MustNewMessage(protocol.MsgError, protocol.ErrorPayload{
		Code:    protocol.ErrCodeMaintenance,
		Message: fmt.Sprintf("🚧 server closing in %d seconds", s.config.Room.CleanupDelay),
	}))

	s.Shutdown()
}

// Shutdown closes every connection and the Redis client.
func (s *Server) Shutdown() {
	time.Sleep(s.config.Room.CleanupDelayDuration())

	s.clientsMu.Lock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clientsMu.Unlock()

	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	_ = s.redis.Close()

	log.Println("server stopped")
}

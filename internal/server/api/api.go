// Package api exposes the account save surface over HTTP. It talks only
// to the save store; failures here never reach the room state machine.
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/campfire-trpg/campfire/internal/server/storage"
)

// API serves the /api/* save endpoints.
type API struct {
	store *storage.SaveStore
}

// New creates the save API.
func New(store *storage.SaveStore) *API {
	return &API{store: store}
}

// Register mounts the endpoints on the mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/login", a.handleLogin)
	mux.HandleFunc("/api/save", a.handleSave)
	mux.HandleFunc("/api/delete", a.handleDelete)
}

type loginRequest struct {
	APIKey string `json:"apiKey"`
}

type saveRequest struct {
	APIKey   string          `json:"apiKey"`
	SaveData json.RawMessage `json:"saveData"`
}

type deleteRequest struct {
	APIKey string `json:"apiKey"`
	SaveID string `json:"saveId"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.APIKey == "" {
		writeError(w, http.StatusBadRequest, "API Key is required")
		return
	}

	saves, found, err := a.store.Load(r.Context(), req.APIKey)
	if err != nil {
		log.Printf("❌ save load failed: %v", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}

	if !found {
		writeJSON(w, map[string]any{"saves": []json.RawMessage{}, "message": "New account created"})
		return
	}
	writeJSON(w, map[string]any{"saves": saves})
}

func (a *API) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.APIKey == "" || len(req.SaveData) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid data")
		return
	}

	saves, err := a.store.Upsert(r.Context(), req.APIKey, req.SaveData)
	if err != nil {
		log.Printf("❌ save upsert failed: %v", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}

	writeJSON(w, map[string]any{"success": true, "saves": saves})
}

func (a *API) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.APIKey == "" || req.SaveID == "" {
		writeError(w, http.StatusBadRequest, "Invalid data")
		return
	}

	saves, found, err := a.store.Delete(r.Context(), req.APIKey, req.SaveID)
	if err != nil {
		log.Printf("❌ save delete failed: %v", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Account not found")
		return
	}

	writeJSON(w, map[string]any{"success": true, "saves": saves})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ response encode failed: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tutorlab/ds-tutor/internal/core"
	"github.com/tutorlab/ds-tutor/internal/export"
	"github.com/tutorlab/ds-tutor/internal/llm"
	"github.com/tutorlab/ds-tutor/internal/session"
	"github.com/tutorlab/ds-tutor/internal/store"
)

type APIHandler struct {
	chatService *core.ChatService
	sessions    *session.Manager
}

func NewAPIHandler(cs *core.ChatService, sm *session.Manager) *APIHandler {
	return &APIHandler{chatService: cs, sessions: sm}
}

type SessionResponse struct {
	SessionID string `json:"session_id"`
}

// GetSessionHandler returns the active session id, minting one on first use.
func (h *APIHandler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, SessionResponse{SessionID: h.sessions.Current()})
}

// ResetSessionHandler starts a new chat. Turns of the previous session stay
// in the store and remain reachable by direct lookup.
func (h *APIHandler) ResetSessionHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, SessionResponse{SessionID: h.sessions.Reset()})
}

type PostMessageRequest struct {
	Content string `json:"content"`
}

// PostMessageHandler runs one exchange on the current session and returns
// the persisted user and assistant turns.
func (h *APIHandler) PostMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sessionID := h.sessions.Current()
	results := h.chatService.Submit(sessionID, req.Content)

	select {
	case res := <-results:
		if res.Err != nil {
			h.respondExchangeError(w, sessionID, res.Err)
			return
		}
		respondJSON(w, http.StatusOK, res.Exchange)
	case <-r.Context().Done():
		// Client went away; the exchange still completes and persists.
	}
}

func (h *APIHandler) respondExchangeError(w http.ResponseWriter, sessionID string, err error) {
	switch {
	case errors.Is(err, core.ErrEmptyMessage):
		respondError(w, http.StatusBadRequest, "Message content cannot be empty")
	case errors.Is(err, llm.ErrUpstream):
		log.Printf("Completion failed for session %s: %v", sessionID, err)
		respondError(w, http.StatusBadGateway, "The assistant could not produce a response. Please try again.")
	default:
		log.Printf("Exchange failed for session %s: %v", sessionID, err)
		respondError(w, http.StatusInternalServerError, "Failed to process message")
	}
}

type HistoryResponse struct {
	SessionID string       `json:"session_id"`
	Turns     []store.Turn `json:"turns"`
}

// GetHistoryHandler returns the current session's transcript for replay.
func (h *APIHandler) GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	h.writeTranscript(w, r, h.sessions.Current())
}

// GetSessionHistoryHandler returns any session's transcript by id. Unknown
// ids yield an empty transcript.
func (h *APIHandler) GetSessionHistoryHandler(w http.ResponseWriter, r *http.Request) {
	h.writeTranscript(w, r, chi.URLParam(r, "sessionID"))
}

func (h *APIHandler) writeTranscript(w http.ResponseWriter, r *http.Request, sessionID string) {
	turns, err := h.chatService.Transcript(r.Context(), sessionID)
	if err != nil {
		log.Printf("Error loading transcript for session %s: %v", sessionID, err)
		respondError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}
	if turns == nil {
		turns = []store.Turn{}
	}
	respondJSON(w, http.StatusOK, HistoryResponse{SessionID: sessionID, Turns: turns})
}

// ExportSessionHandler serves a session's transcript as a plain-text
// download named chat_<session_id>.txt.
func (h *APIHandler) ExportSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	turns, err := h.chatService.Transcript(r.Context(), sessionID)
	if err != nil {
		log.Printf("Error exporting session %s: %v", sessionID, err)
		respondError(w, http.StatusInternalServerError, "Failed to export chat")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(sessionID)))
	w.Write([]byte(export.Transcript(turns)))
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

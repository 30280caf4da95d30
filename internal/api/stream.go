package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/tutorlab/ds-tutor/internal/core"
	"github.com/tutorlab/ds-tutor/internal/llm"
)

// StreamEvent is one server-sent frame of a streamed exchange. Event is one
// of start, message, error, end.
type StreamEvent struct {
	Event     string `json:"event"`
	SessionID string `json:"session_id,omitempty"`
	Content   string `json:"content,omitempty"`
	Error     string `json:"error,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
}

// StreamMessageHandler runs one exchange on the current session and forwards
// the result channel to the page as server-sent events.
func (h *APIHandler) StreamMessageHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sessionID := h.sessions.Current()
	sendSSE(w, flusher, StreamEvent{Event: "start", SessionID: sessionID})

	results := h.chatService.Submit(sessionID, r.URL.Query().Get("message"))

	select {
	case res := <-results:
		if res.Err != nil {
			sendSSE(w, flusher, StreamEvent{Event: "error", SessionID: sessionID, Error: streamErrorMessage(res.Err)})
			return
		}
		sendSSE(w, flusher, StreamEvent{Event: "message", SessionID: sessionID, Content: res.Exchange.Assistant.Content})
		sendSSE(w, flusher, StreamEvent{Event: "end", SessionID: sessionID, Finished: true})
	case <-r.Context().Done():
		// Client went away; the exchange still completes and persists.
	}
}

func streamErrorMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyMessage):
		return "Message content cannot be empty"
	case errors.Is(err, llm.ErrUpstream):
		return "The assistant could not produce a response. Please try again."
	default:
		return "Failed to process message"
	}
}

func sendSSE(w http.ResponseWriter, flusher http.Flusher, event StreamEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling stream event: %v", err)
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}

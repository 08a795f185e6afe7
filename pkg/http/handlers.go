package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"chatsafety-server/pkg/chat"
	"chatsafety-server/pkg/version"
)

// submitRequest is the body of POST /conversations/{id}/messages
type submitRequest struct {
	Content string `json:"content"`
	Sender  string `json:"sender"`
}

// healthHandler reports process liveness
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"version":        version.Version,
		"uptime_seconds": int(time.Since(s.startTime).Seconds()),
	})
}

// conversationsHandler routes /conversations/{id}/messages
func (s *Server) conversationsHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/conversations/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "messages" {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	conversationID := parts[0]

	switch r.Method {
	case http.MethodPost:
		s.handleSubmit(w, r, conversationID)
	case http.MethodGet:
		s.handleListMessages(w, conversationID)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleSubmit appends a message to the conversation through the pipeline
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request, conversationID string) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sender := chat.Sender(req.Sender)
	if !sender.Valid() || sender == chat.SenderSystem {
		s.writeError(w, http.StatusBadRequest, "sender must be user or match")
		return
	}

	msg, err := s.pipeline.Submit(r.Context(), conversationID, req.Content, sender)
	if err != nil {
		s.logger.WithError(err).Error("Failed to submit message")
		s.writeError(w, http.StatusInternalServerError, "failed to submit message")
		return
	}

	s.writeJSON(w, http.StatusCreated, msg)
}

// handleListMessages returns the conversation history for rendering
func (s *Server) handleListMessages(w http.ResponseWriter, conversationID string) {
	messages := s.pipeline.Messages(conversationID)

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"conversation_id": conversationID,
		"messages":        messages,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

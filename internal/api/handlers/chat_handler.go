package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/safemind-ai/safemind/internal/core"
	"github.com/safemind-ai/safemind/internal/services"
)

type ChatHandler struct {
	dbclient core.DbClient
	pipeline *services.ChatPipeline
}

func NewChatHandler(db core.DbClient, pipeline *services.ChatPipeline) *ChatHandler {
	return &ChatHandler{dbclient: db, pipeline: pipeline}
}

type chatRequest struct {
	Message string `json:"message"`
}

// StreamMessage handles one streamed turn. Records are
// newline-delimited JSON; failures before the first record map to
// plain HTTP statuses, failures after it become the terminal error
// record.
func (h *ChatHandler) StreamMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := ctx.Value("user_id").(string)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.dbclient.GetUserByID(ctx, userID)
	if err != nil || user == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	emitter := newNDJSONEmitter(w)
	in := services.StreamTurnInput{
		ConversationID: chi.URLParam(r, "id"),
		UserID:         userID,
		Profile:        user.Profile(),
		Message:        req.Message,
	}

	if err := h.pipeline.StreamTurn(ctx, in, emitter); err != nil {
		if !emitter.started {
			writeTurnError(w, err)
			return
		}
		// Stream already underway; best effort terminal record.
		_ = emitter.Emit(services.Event{Type: services.EventError, Content: turnErrorMessage(err)})
	}
}

func writeTurnError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrForbidden):
		http.Error(w, "conversation not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// turnErrorMessage keeps collaborator detail out of the wire; the
// caller only needs the failure class.
func turnErrorMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrRetrieval):
		return "knowledge base search failed"
	case errors.Is(err, services.ErrGeneration):
		return "response generation failed"
	case errors.Is(err, services.ErrPersistence):
		return "response generated but could not be saved"
	default:
		return "internal error"
	}
}

// ndjsonEmitter writes one JSON record per line and flushes after
// each so fragments reach the caller as they are produced.
type ndjsonEmitter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	enc     *json.Encoder
	started bool
}

func newNDJSONEmitter(w http.ResponseWriter) *ndjsonEmitter {
	flusher, _ := w.(http.Flusher)
	return &ndjsonEmitter{w: w, flusher: flusher, enc: json.NewEncoder(w)}
}

func (e *ndjsonEmitter) Emit(ev services.Event) error {
	if !e.started {
		e.w.Header().Set("Content-Type", "application/x-ndjson")
		e.started = true
	}
	if err := e.enc.Encode(ev); err != nil {
		return err
	}
	if e.flusher != nil {
		e.flusher.Flush()
	}
	return nil
}

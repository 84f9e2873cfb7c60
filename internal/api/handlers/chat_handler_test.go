package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safemind-ai/safemind/internal/core"
	"github.com/safemind-ai/safemind/internal/core/crisis"
	"github.com/safemind-ai/safemind/internal/core/intent"
	"github.com/safemind-ai/safemind/internal/core/prompt"
	"github.com/safemind-ai/safemind/internal/models"
	"github.com/safemind-ai/safemind/internal/services"
)

// stubDB overrides only what the streaming endpoint touches.
type stubDB struct {
	core.DbClient
	user *models.User
	conv *models.Conversation
	msgs []models.Message

	appended [][]models.Message
}

func (s *stubDB) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, nil
}

func (s *stubDB) GetConversationByID(_ context.Context, id string) (*models.Conversation, error) {
	if s.conv != nil && s.conv.ID == id {
		return s.conv, nil
	}
	return nil, nil
}

func (s *stubDB) GetMessagesByConversation(_ context.Context, _ string) ([]models.Message, error) {
	return s.msgs, nil
}

func (s *stubDB) UpdateConversationTitle(_ context.Context, _ string, title string) error {
	s.conv.Title = title
	return nil
}

func (s *stubDB) AppendMessages(_ context.Context, msgs []models.Message) error {
	s.appended = append(s.appended, msgs)
	return nil
}

type scriptedLLM struct {
	fragments []string
}

func (s *scriptedLLM) GenerateStream(_ context.Context, _ string, _ []models.Message, _ string, onFragment core.FragmentFunc) error {
	for _, frag := range s.fragments {
		if err := onFragment(frag); err != nil {
			return err
		}
	}
	return nil
}

type noopRetriever struct{}

func (noopRetriever) Retrieve(_ context.Context, _ string, _ int) ([]models.RetrievedPassage, error) {
	return nil, nil
}

func newStreamRequest(t *testing.T, convID, userID, message string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/conversations/"+convID+"/messages",
		strings.NewReader(`{"message":`+jsonString(message)+`}`))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", convID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, "user_id", userID)
	return req.WithContext(ctx)
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func newTestChatHandler(db *stubDB, llm core.StreamingLLM) *ChatHandler {
	classifier := intent.NewClassifier(intent.DefaultKeywords())
	composer := prompt.NewComposer(crisis.NewResolver())
	pipeline := services.NewChatPipeline(db, noopRetriever{}, llm, classifier, composer, 5)
	return NewChatHandler(db, pipeline)
}

func TestStreamMessageWireContract(t *testing.T) {
	db := &stubDB{
		user: &models.User{ID: "user-1", Name: "Asha", Age: 29, Gender: "female", Location: "Mumbai"},
		conv: &models.Conversation{ID: "conv-1", UserID: "user-1", Title: "New Conversation"},
	}
	h := newTestChatHandler(db, &scriptedLLM{fragments: []string{"Hi ", "Asha!"}})

	rec := httptest.NewRecorder()
	h.StreamMessage(rec, newStreamRequest(t, "conv-1", "user-1", "hi"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-ndjson", rec.Header().Get("Content-Type"))

	var events []services.Event
	sc := bufio.NewScanner(rec.Body)
	for sc.Scan() {
		var ev services.Event
		require.NoError(t, json.Unmarshal(sc.Bytes(), &ev), "each line must be one JSON record")
		events = append(events, ev)
	}

	require.Len(t, events, 4)
	assert.Equal(t, services.Event{Type: "status", Content: "Analyzing intent..."}, events[0])
	assert.Equal(t, "token", events[1].Type)
	assert.Equal(t, "token", events[2].Type)
	assert.Equal(t, services.Event{Type: "done"}, events[3])
	assert.Equal(t, "Hi Asha!", events[1].Content+events[2].Content)

	require.Len(t, db.appended, 1)
	require.Len(t, db.appended[0], 2)
	assert.Equal(t, "Hi Asha!", db.appended[0][1].Content)
}

func TestStreamMessageUnknownConversationIsPlainHTTPError(t *testing.T) {
	db := &stubDB{
		user: &models.User{ID: "user-1", Name: "Asha"},
	}
	h := newTestChatHandler(db, &scriptedLLM{fragments: []string{"x"}})

	rec := httptest.NewRecorder()
	h.StreamMessage(rec, newStreamRequest(t, "missing", "user-1", "hi"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, db.appended)
}

func TestStreamMessageForeignConversationReadsAsNotFound(t *testing.T) {
	db := &stubDB{
		user: &models.User{ID: "user-1", Name: "Asha"},
		conv: &models.Conversation{ID: "conv-1", UserID: "someone-else"},
	}
	h := newTestChatHandler(db, &scriptedLLM{fragments: []string{"x"}})

	rec := httptest.NewRecorder()
	h.StreamMessage(rec, newStreamRequest(t, "conv-1", "user-1", "hi"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStreamMessageEmptyMessage(t *testing.T) {
	db := &stubDB{
		user: &models.User{ID: "user-1", Name: "Asha"},
		conv: &models.Conversation{ID: "conv-1", UserID: "user-1"},
	}
	h := newTestChatHandler(db, &scriptedLLM{fragments: []string{"x"}})

	rec := httptest.NewRecorder()
	h.StreamMessage(rec, newStreamRequest(t, "conv-1", "user-1", "   "))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// failingLLM dies after its first fragment.
type failingLLM struct{}

func (failingLLM) GenerateStream(_ context.Context, _ string, _ []models.Message, _ string, onFragment core.FragmentFunc) error {
	if err := onFragment("partial "); err != nil {
		return err
	}
	return assert.AnError
}

func TestStreamMessageMidStreamFailureEmitsTerminalError(t *testing.T) {
	db := &stubDB{
		user: &models.User{ID: "user-1", Name: "Asha"},
		conv: &models.Conversation{ID: "conv-1", UserID: "user-1"},
	}
	h := newTestChatHandler(db, failingLLM{})

	rec := httptest.NewRecorder()
	h.StreamMessage(rec, newStreamRequest(t, "conv-1", "user-1", "hi"))

	require.Equal(t, http.StatusOK, rec.Code, "stream already started; failure rides the wire")

	var last services.Event
	sc := bufio.NewScanner(rec.Body)
	for sc.Scan() {
		require.NoError(t, json.Unmarshal(sc.Bytes(), &last))
	}
	assert.Equal(t, "error", last.Type)
	assert.Equal(t, "response generation failed", last.Content)
	assert.Empty(t, db.appended, "failed turn is not persisted")
}

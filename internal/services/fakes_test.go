package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/safemind-ai/safemind/internal/core"
	"github.com/safemind-ai/safemind/internal/models"
)

// fakeDB is an in-memory core.DbClient good enough for pipeline and
// service tests.
type fakeDB struct {
	mu     sync.Mutex
	users  map[string]*models.User
	convs  map[string]*models.Conversation
	msgs   []models.Message
	nextID int64

	titleUpdates map[string]string
	appendErr    error
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:        map[string]*models.User{},
		convs:        map[string]*models.Conversation{},
		titleUpdates: map[string]string{},
	}
}

func (f *fakeDB) addConversation(id, userID, title string) {
	f.convs[id] = &models.Conversation{ID: id, UserID: userID, Title: title}
}

func (f *fakeDB) CreateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return errors.New("duplicate email")
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeDB) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeDB) GetUserByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

func (f *fakeDB) CreateConversation(_ context.Context, conv *models.Conversation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.convs[conv.ID] = conv
	return nil
}

func (f *fakeDB) GetConversationByID(_ context.Context, id string) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.convs[id], nil
}

func (f *fakeDB) ListConversationsByUser(_ context.Context, userID string) ([]models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Conversation
	for _, c := range f.convs {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeDB) UpdateConversationTitle(_ context.Context, id string, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.convs[id]
	if !ok {
		return fmt.Errorf("conversation not found: %s", id)
	}
	conv.Title = title
	f.titleUpdates[id] = title
	return nil
}

func (f *fakeDB) DeleteConversation(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.convs, id)
	kept := f.msgs[:0]
	for _, m := range f.msgs {
		if m.ConversationID != id {
			kept = append(kept, m)
		}
	}
	f.msgs = kept
	return nil
}

func (f *fakeDB) AppendMessages(_ context.Context, msgs []models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	for _, m := range msgs {
		f.nextID++
		m.ID = f.nextID
		f.msgs = append(f.msgs, m)
	}
	return nil
}

func (f *fakeDB) GetMessagesByConversation(_ context.Context, conversationID string) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Message
	for _, m := range f.msgs {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeDB) SearchPassages(_ context.Context, _ []float32, _ int) ([]models.RetrievedPassage, error) {
	return nil, nil
}

func (f *fakeDB) Close() error { return nil }

var _ core.DbClient = (*fakeDB)(nil)

// fakeRetriever returns canned passages and counts calls.
type fakeRetriever struct {
	passages []models.RetrievedPassage
	err      error
	calls    int
	lastK    int
	lastQ    string
}

func (f *fakeRetriever) Retrieve(_ context.Context, query string, k int) ([]models.RetrievedPassage, error) {
	f.calls++
	f.lastQ = query
	f.lastK = k
	if f.err != nil {
		return nil, f.err
	}
	return f.passages, nil
}

// fakeLLM replays scripted fragments and records what it was asked.
// If failAfter >= 0 it errors after delivering that many fragments.
type fakeLLM struct {
	fragments []string
	failAfter int

	lastSystem  string
	lastHistory []models.Message
	lastUser    string
}

func newFakeLLM(fragments ...string) *fakeLLM {
	return &fakeLLM{fragments: fragments, failAfter: -1}
}

func (f *fakeLLM) GenerateStream(ctx context.Context, systemPrompt string, history []models.Message, userText string, onFragment core.FragmentFunc) error {
	f.lastSystem = systemPrompt
	f.lastHistory = history
	f.lastUser = userText
	for i, frag := range f.fragments {
		if f.failAfter >= 0 && i == f.failAfter {
			return errors.New("upstream generator unavailable")
		}
		if err := onFragment(frag); err != nil {
			return err
		}
	}
	return nil
}

// collectEmitter records every event; afterToken can trigger side
// effects (like cancelling a context) once n token events were seen.
type collectEmitter struct {
	events     []Event
	tokenCount int
	afterToken func(n int)
}

func (c *collectEmitter) Emit(ev Event) error {
	c.events = append(c.events, ev)
	if ev.Type == EventToken {
		c.tokenCount++
		if c.afterToken != nil {
			c.afterToken(c.tokenCount)
		}
	}
	return nil
}

func (c *collectEmitter) tokens() string {
	var out string
	for _, ev := range c.events {
		if ev.Type == EventToken {
			out += ev.Content
		}
	}
	return out
}

func (c *collectEmitter) types() []string {
	out := make([]string, 0, len(c.events))
	for _, ev := range c.events {
		out = append(out, ev.Type)
	}
	return out
}

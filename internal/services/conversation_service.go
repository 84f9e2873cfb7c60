package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/safemind-ai/safemind/internal/core"
	"github.com/safemind-ai/safemind/internal/models"
)

// placeholderTitle is rewritten from the first user message.
const placeholderTitle = "New Conversation"

// ConversationService owns conversation lifecycle and enforces that
// only the owner can read or delete a conversation, independent of
// whatever the transport layer checks.
type ConversationService struct {
	db core.DbClient
}

func NewConversationService(db core.DbClient) *ConversationService {
	return &ConversationService{db: db}
}

func (s *ConversationService) Create(ctx context.Context, userID string) (*models.Conversation, error) {
	conv := &models.Conversation{
		ID:     uuid.NewString(),
		UserID: userID,
		Title:  placeholderTitle,
	}
	if err := s.db.CreateConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return conv, nil
}

func (s *ConversationService) ListByUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	return s.db.ListConversationsByUser(ctx, userID)
}

// GetOwned loads a conversation and verifies ownership.
func (s *ConversationService) GetOwned(ctx context.Context, id, userID string) (*models.Conversation, error) {
	conv, err := s.db.GetConversationByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	if conv == nil {
		return nil, fmt.Errorf("%w: conversation %s", ErrNotFound, id)
	}
	if conv.UserID != userID {
		return nil, fmt.Errorf("%w: conversation %s", ErrForbidden, id)
	}
	return conv, nil
}

// History returns the conversation's turns oldest first.
func (s *ConversationService) History(ctx context.Context, id, userID string) ([]models.Message, error) {
	if _, err := s.GetOwned(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.db.GetMessagesByConversation(ctx, id)
}

// Delete removes the conversation and all its messages.
func (s *ConversationService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.GetOwned(ctx, id, userID); err != nil {
		return err
	}
	return s.db.DeleteConversation(ctx, id)
}

package core

import (
	"context"

	"github.com/safemind-ai/safemind/internal/models"
)

// DbClient defines all persistence operations the services need.
// It abstracts Postgres/pgvector so higher layers never depend on a
// specific DB.
type DbClient interface {
	CreateUser(ctx context.Context, user *models.User) (err error)
	GetUserByEmail(ctx context.Context, email string) (user *models.User, err error)
	GetUserByID(ctx context.Context, id string) (user *models.User, err error)

	CreateConversation(ctx context.Context, conv *models.Conversation) error
	GetConversationByID(ctx context.Context, id string) (*models.Conversation, error)
	ListConversationsByUser(ctx context.Context, userID string) ([]models.Conversation, error)
	UpdateConversationTitle(ctx context.Context, id string, title string) error
	DeleteConversation(ctx context.Context, id string) error

	// AppendMessages inserts the given messages in a single
	// transaction; either all become visible or none do.
	AppendMessages(ctx context.Context, msgs []models.Message) error
	GetMessagesByConversation(ctx context.Context, conversationID string) ([]models.Message, error)

	SearchPassages(ctx context.Context, queryVec []float32, limit int) ([]models.RetrievedPassage, error)

	Close() error
}

package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/safemind-ai/safemind/internal/core"
	"github.com/safemind-ai/safemind/internal/core/intent"
	"github.com/safemind-ai/safemind/internal/core/prompt"
	"github.com/safemind-ai/safemind/internal/core/rag"
	"github.com/safemind-ai/safemind/internal/models"
)

// ChatPipeline drives one full streamed turn: classify the message,
// pick a generation strategy, stream fragments to the caller, and
// persist the completed exchange. All collaborators are injected;
// the pipeline holds no mutable state of its own, so instances can
// serve concurrent requests.
type ChatPipeline struct {
	db         core.DbClient
	retriever  core.Retriever
	llm        core.StreamingLLM
	classifier *intent.Classifier
	composer   *prompt.Composer
	retrieveK  int
	now        func() time.Time
}

func NewChatPipeline(db core.DbClient, retriever core.Retriever, llm core.StreamingLLM, classifier *intent.Classifier, composer *prompt.Composer, retrieveK int) *ChatPipeline {
	if retrieveK <= 0 {
		retrieveK = 5
	}
	return &ChatPipeline{
		db:         db,
		retriever:  retriever,
		llm:        llm,
		classifier: classifier,
		composer:   composer,
		retrieveK:  retrieveK,
		now:        time.Now,
	}
}

// StreamTurnInput carries everything one request needs. Profile comes
// from the authenticated user's record, never from the request body.
type StreamTurnInput struct {
	ConversationID string
	UserID         string
	Profile        models.Profile
	Message        string
}

// StreamTurn runs the full turn against the given emitter. On success
// the final event is done and exactly two messages (user + assistant)
// have been appended atomically. On failure nothing is persisted and
// the error carries its failure class; the caller decides how to
// surface it. Cancellation is observed between fragments: if the
// context dies mid-stream the turn is abandoned unsaved.
func (p *ChatPipeline) StreamTurn(ctx context.Context, in StreamTurnInput, emit Emitter) error {
	if strings.TrimSpace(in.Message) == "" {
		return fmt.Errorf("%w: empty message", ErrValidation)
	}
	if in.ConversationID == "" {
		return fmt.Errorf("%w: missing conversation id", ErrValidation)
	}

	conv, err := p.db.GetConversationByID(ctx, in.ConversationID)
	if err != nil {
		return fmt.Errorf("%w: load conversation: %v", ErrPersistence, err)
	}
	if conv == nil {
		return fmt.Errorf("%w: conversation %s", ErrNotFound, in.ConversationID)
	}
	if conv.UserID != in.UserID {
		return fmt.Errorf("%w: conversation %s", ErrForbidden, in.ConversationID)
	}

	history, err := p.db.GetMessagesByConversation(ctx, in.ConversationID)
	if err != nil {
		return fmt.Errorf("%w: load history: %v", ErrPersistence, err)
	}

	// First turn names the conversation after the message.
	if len(history) == 0 {
		if err := p.db.UpdateConversationTitle(ctx, in.ConversationID, titleFromMessage(in.Message)); err != nil {
			return fmt.Errorf("%w: update title: %v", ErrPersistence, err)
		}
	}

	if err := emit.Emit(Event{Type: EventStatus, Content: "Analyzing intent..."}); err != nil {
		return err
	}

	analysis := p.classifier.Classify(in.Message)

	var reply strings.Builder
	onFragment := func(fragment string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit.Emit(Event{Type: EventToken, Content: fragment}); err != nil {
			return err
		}
		reply.WriteString(fragment)
		return nil
	}

	if err := p.route(ctx, in, analysis, history, emit, onFragment); err != nil {
		return err
	}

	// A disconnect between the last fragment and completion still
	// abandons the turn; a silently half-saved reply is worse than
	// an absent one.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	createdAt := p.now()
	msgs := []models.Message{
		{ConversationID: in.ConversationID, Role: models.RoleUser, Content: in.Message, CreatedAt: createdAt},
		{ConversationID: in.ConversationID, Role: models.RoleAssistant, Content: reply.String(), CreatedAt: createdAt},
	}
	if err := p.db.AppendMessages(ctx, msgs); err != nil {
		return fmt.Errorf("%w: append turn: %v", ErrPersistence, err)
	}

	return emit.Emit(Event{Type: EventDone})
}

// route selects the generation strategy from the classified intent and
// runs it to completion. The choice is final for the whole turn.
func (p *ChatPipeline) route(ctx context.Context, in StreamTurnInput, analysis intent.Analysis, history []models.Message, emit Emitter, onFragment core.FragmentFunc) error {
	switch analysis.Intent {
	case intent.IntentEmergency:
		// Crisis handling never touches retrieval; nothing may
		// delay it.
		log.Printf("EMERGENCY intent detected, conversation=%s location=%q", in.ConversationID, in.Profile.Location)
		sys := p.composer.Emergency(in.Profile)
		return p.generate(ctx, sys, history, in.Message, onFragment)

	case intent.IntentSocial:
		// Fast path: no history, no analysis language.
		sys := p.composer.Social(in.Profile)
		return p.generate(ctx, sys, nil, in.Message, onFragment)

	case intent.IntentVenting, intent.IntentEmotional:
		sys := p.composer.Conversational(in.Profile, analysis)
		return p.generate(ctx, sys, history, in.Message, onFragment)

	default:
		if err := emit.Emit(Event{Type: EventStatus, Content: "Searching knowledge base..."}); err != nil {
			return err
		}
		passages, err := p.retriever.Retrieve(ctx, in.Message, p.retrieveK)
		if err != nil {
			// A dead retriever must not degrade into an
			// unsupported answer.
			return fmt.Errorf("%w: %v", ErrRetrieval, err)
		}
		decision := rag.Gate(passages)
		if decision.Cautionary {
			log.Printf("low retrieval confidence %.4f, applying conservative constraints", decision.Level)
		}
		sys := p.composer.RetrievalAugmented(in.Profile, analysis, decision.Instruction, passages)
		return p.generate(ctx, sys, history, in.Message, onFragment)
	}
}

func (p *ChatPipeline) generate(ctx context.Context, systemPrompt string, history []models.Message, userText string, onFragment core.FragmentFunc) error {
	if err := p.llm.GenerateStream(ctx, systemPrompt, history, userText, onFragment); err != nil {
		return fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return nil
}

// titleFromMessage derives a conversation title from the first five
// words of the first user message.
func titleFromMessage(message string) string {
	words := strings.Fields(message)
	if len(words) > 5 {
		words = words[:5]
	}
	return strings.Join(words, " ") + "..."
}

package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/safemind-ai/safemind/internal/core/crisis"
	"github.com/safemind-ai/safemind/internal/core/intent"
	"github.com/safemind-ai/safemind/internal/models"
)

// Composer builds the system-instruction text for each generation
// strategy. Each variant is assembled from named slots (persona,
// context tag, caution, retrieved context) in a fixed order, so the
// shape of a prompt is decided here and nowhere else.
type Composer struct {
	crisis *crisis.Resolver
}

func NewComposer(resolver *crisis.Resolver) *Composer {
	return &Composer{crisis: resolver}
}

// persona is the general-purpose supportive-assistant instruction
// block shared by the conversational and retrieval-augmented
// strategies.
func (c *Composer) persona(p models.Profile) string {
	return "You are SafeMind — a warm, empathetic, and intelligent mental wellbeing assistant. " +
		"Your purpose is to help users through emotional support and practical guidance. " +
		"USER CONTEXT: " +
		fmt.Sprintf("Name: %s, Age: %s, Gender: %s, Location: %s ",
			orDefault(p.Name, "User"), ageText(p.Age), orDefault(p.Gender, "Not specified"), orDefault(p.Location, "Not specified")) +
		"Analyze what the user needs: " +
		"1. EMOTIONAL - Provide empathy, validation, reassurance, coping strategies " +
		"2. TECHNICAL/PRACTICAL - Provide step-by-step solutions and actionable strategies " +
		"3. ADVICE - Present multiple perspectives, pros/cons, help clarify values " +
		"4. STRESS - Validate pressure while breaking problems in manageable steps " +
		"5. WELLNESS - Provide evidence-based health recommendations and stress factors " +
		"6. VENTING - Listen empathetically, validate, normalize; don't over-solve " +
		"TONE: Always validate first, match their energy, use specific examples, balance comfort with action. " +
		"Be warm but effective. If serious mental health crisis, suggest professional help. "
}

// ContextTag renders the classifier verdict the way downstream prompts
// expect it, verbatim.
func ContextTag(a intent.Analysis) string {
	return fmt.Sprintf("[Context: Intent=%s, Sentiment=%s, Emotion=%s]",
		strings.ToUpper(string(a.Intent)), a.Sentiment, a.EmotionalLevel)
}

// Emergency builds the crisis prompt: compassion first, no
// problem-solving, and the locale hotline block from the resolver.
func (c *Composer) Emergency(p models.Profile) string {
	name := orDefault(p.Name, "User")
	return "You are SafeMind, a compassionate mental health assistant. " +
		"The user is experiencing a crisis. " +
		"Your role is to provide warm, empathetic support and suggest professional help. " +
		"Do NOT problem-solve or give step-by-step advice. " +
		"Validate their feelings, remind them they are not alone, and gently encourage them to reach out for help. " +
		fmt.Sprintf("Provide specific crisis resources or emergency numbers relevant to their location %s. ", p.Location) +
		c.crisis.Resolve(p.Location) +
		"Keep your response warm and hopeful. " +
		fmt.Sprintf("\nUser Name: %s, Location: %s", name, p.Location)
}

// Social builds the fast-path prompt for casual greetings.
func (c *Composer) Social(p models.Profile) string {
	return "You are a friendly, warm conversational assistant. " +
		"The user has sent a casual social message. " +
		"Respond instantly with a short, friendly reply (1-2 lines maximum). " +
		"Do NOT analyze emotions. Do NOT give advice. Do NOT be clinical. " +
		"Just be human and natural." +
		fmt.Sprintf("\nUser Name: %s", orDefault(p.Name, "User"))
}

// Conversational builds the full supportive prompt plus the intent
// context tag.
func (c *Composer) Conversational(p models.Profile, a intent.Analysis) string {
	return c.persona(p) + "\n" + ContextTag(a)
}

// RetrievalAugmented extends the conversational prompt with the
// confidence gate's cautionary instruction (possibly empty) and the
// retrieved passages.
func (c *Composer) RetrievalAugmented(p models.Profile, a intent.Analysis, caution string, passages []models.RetrievedPassage) string {
	var sb strings.Builder
	sb.WriteString(c.persona(p))
	sb.WriteString("\n")
	sb.WriteString(ContextTag(a))
	sb.WriteString("\n")
	sb.WriteString(caution)
	sb.WriteString("\nContext from knowledge base:\n")
	for _, ps := range passages {
		sb.WriteString(ps.Content)
		sb.WriteString("\n---\n")
	}
	return sb.String()
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func ageText(age int) string {
	if age <= 0 {
		return "Not specified"
	}
	return strconv.Itoa(age)
}

package intent

import "strings"

// Intent is the coarse category of what the user wants.
type Intent string

const (
	IntentEmergency Intent = "emergency"
	IntentSocial    Intent = "social"
	IntentKnowledge Intent = "knowledge"
	IntentTechnical Intent = "technical"
	IntentEmotional Intent = "emotional"
	IntentAdvice    Intent = "advice"
	IntentWellness  Intent = "wellness"
	IntentVenting   Intent = "venting"
)

type Sentiment string

const (
	SentimentUrgent   Sentiment = "urgent"
	SentimentNegative Sentiment = "negative"
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
)

type EmotionalLevel string

const (
	LevelLow    EmotionalLevel = "low"
	LevelMedium EmotionalLevel = "medium"
	LevelHigh   EmotionalLevel = "high"
)

// Analysis is the classifier's verdict for one message.
type Analysis struct {
	Intent         Intent
	Sentiment      Sentiment
	EmotionalLevel EmotionalLevel
}

// Classifier maps raw message text to an Analysis by counting keyword
// matches and applying an ordered rule list, first match wins. It is
// pure string scanning with no I/O, so it is safe to run on every
// message before any network call.
type Classifier struct {
	kw Keywords
}

func NewClassifier(kw Keywords) *Classifier {
	return &Classifier{kw: kw}
}

// Classify is deterministic and never fails; every message maps to
// some intent, with venting as the fallback.
func (c *Classifier) Classify(message string) Analysis {
	lower := strings.ToLower(message)

	emotionalCount := countSubstrings(lower, c.kw.Emotional)
	technicalCount := countSubstrings(lower, c.kw.Technical)
	urgentCount := countSubstrings(lower, c.kw.Urgent)
	knowledgeCount := countPrefixes(lower, c.kw.Knowledge)

	isShort := len(strings.Fields(message)) <= 10
	hasSocialKw := containsAny(lower, c.kw.Social)
	noDistress := emotionalCount == 0 && urgentCount == 0 && technicalCount == 0

	// Priority order is load-bearing: an urgent keyword always wins,
	// no matter what else the message contains.
	var in Intent
	switch {
	case urgentCount > 0:
		in = IntentEmergency
	case hasSocialKw && isShort && noDistress:
		in = IntentSocial
	case knowledgeCount > 0:
		in = IntentKnowledge
	case technicalCount > emotionalCount && technicalCount > 0:
		in = IntentTechnical
	case emotionalCount > technicalCount && emotionalCount > 0:
		in = IntentEmotional
	case containsAny(lower, c.kw.Advice):
		in = IntentAdvice
	case containsAny(lower, c.kw.Wellness):
		in = IntentWellness
	default:
		in = IntentVenting
	}

	negativeCount := countSubstrings(lower, c.kw.Negative)

	var sent Sentiment
	switch {
	case urgentCount > 0:
		sent = SentimentUrgent
	case emotionalCount > 3 && negativeCount > 0:
		sent = SentimentNegative
	case containsAny(lower, c.kw.Positive):
		sent = SentimentPositive
	default:
		sent = SentimentNeutral
	}

	level := LevelLow
	switch {
	case urgentCount > 0:
		level = LevelHigh
	case emotionalCount > 3:
		level = LevelHigh
	case emotionalCount > 1:
		level = LevelMedium
	}

	return Analysis{Intent: in, Sentiment: sent, EmotionalLevel: level}
}

func countSubstrings(lower string, kws []string) int {
	n := 0
	for _, kw := range kws {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

func countPrefixes(lower string, kws []string) int {
	n := 0
	for _, kw := range kws {
		if strings.HasPrefix(lower, kw) {
			n++
		}
	}
	return n
}

func containsAny(lower string, kws []string) bool {
	for _, kw := range kws {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

package intent

// Keywords holds the keyword sets the classifier scans for. They are
// plain data so tests can substitute smaller sets.
type Keywords struct {
	Emotional []string
	Technical []string
	// Knowledge entries match only as prefixes of the message.
	Knowledge []string
	Venting   []string
	Social    []string
	Urgent    []string

	Negative []string
	Positive []string
	Advice   []string
	Wellness []string
}

// DefaultKeywords returns the production keyword sets.
func DefaultKeywords() Keywords {
	return Keywords{
		Emotional: []string{
			"feel", "feeling", "sad", "depressed", "anxious", "worried", "stress", "stressed",
			"overwhelmed", "scared", "afraid", "lonely", "struggling", "broken", "hurt",
			"angry", "frustrated", "disappointed", "devastated", "heartbroken", "numb", "empty",
			"suicidal", "harm", "hurt myself", "can't take it", "can't handle", "breaking down",
			"panic", "panicking", "crying", "cry", "exhausted", "tired", "depressing", "terrible",
		},
		Technical: []string{
			"how to", "how do i", "help me", "can you explain", "debug", "code", "error",
			"problem", "issue", "fix", "solution", "advice on", "tips for", "steps", "process",
			"way to", "method", "technique", "approach", "strategy", "algorithm", "implement",
			"build", "create", "develop", "learn", "study", "understand",
		},
		Knowledge: []string{
			"what is", "what are", "who is", "who are", "explain", "tell me about", "define",
		},
		Venting: []string{
			"just", "ugh", "i hate", "seriously", "honestly", "actually", "literally",
			"can you imagine", "no joke", "can you believe", "i mean", "so annoying", "ridiculous",
		},
		Social: []string{
			"hi", "hello", "hey", "greetings", "morning", "afternoon", "evening",
			"how are you", "how are things", "how is used", "whats up", "what's up",
			"ok", "okay", "cool", "nice", "great", "thanks", "thank you", "thx", "got it", "sure",
		},
		Urgent: []string{
			"crisis", "emergency", "immediate", "right now", "asap", "urgent", "please help",
			"dying", "dead", "kill myself", "end it", "give up", "hopeless", "no point",
		},
		Negative: []string{"not", "no", "can't", "don't", "won't", "fail", "bad"},
		Positive: []string{"great", "good", "happy", "better", "amazing"},
		Advice:   []string{"advice", "should i"},
		Wellness: []string{"sleep", "exercise", "eat", "diet", "fitness"},
	}
}

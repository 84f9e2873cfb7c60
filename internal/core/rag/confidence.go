package rag

import (
	"github.com/safemind-ai/safemind/internal/models"
)

// ConfidenceThreshold is the level below which generated answers must
// use guarded language.
const ConfidenceThreshold = 0.35

// CautionInstruction is appended to the system prompt when retrieval
// confidence is low.
const CautionInstruction = "\nWARNING: The retrieved context has low relevance confidence. " +
	"Do NOT make strong medical claims or factual assertions unless strictly supported by the context. " +
	"Use guarded language (e.g., 'The guidelines suggest...', 'It may be helpful to...'). " +
	"If the answer is not in the context, admit it politely."

// Decision is the confidence gate's verdict for one retrieval call.
type Decision struct {
	Level       float64
	Cautionary  bool
	Instruction string
}

// Gate scores one retrieval result set. The level is the maximum of
// the passage scores (one good match is enough), or 0.0 when nothing
// was retrieved. Levels below the threshold demand hedged language;
// the threshold itself does not.
func Gate(passages []models.RetrievedPassage) Decision {
	level := 0.0
	for _, p := range passages {
		if p.Score > level {
			level = p.Score
		}
	}

	d := Decision{Level: level}
	if level < ConfidenceThreshold {
		d.Cautionary = true
		d.Instruction = CautionInstruction
	}
	return d
}

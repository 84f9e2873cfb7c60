package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/safemind-ai/safemind/internal/models"
)

func passages(scores ...float64) []models.RetrievedPassage {
	out := make([]models.RetrievedPassage, 0, len(scores))
	for _, s := range scores {
		out = append(out, models.RetrievedPassage{Content: "passage", Source: "doc", Score: s})
	}
	return out
}

func TestGateEmptyResult(t *testing.T) {
	d := Gate(nil)
	assert.Equal(t, 0.0, d.Level)
	assert.True(t, d.Cautionary)
	assert.Equal(t, CautionInstruction, d.Instruction)
}

func TestGateLevelIsMaxScore(t *testing.T) {
	d := Gate(passages(0.12, 0.6, 0.31))
	assert.Equal(t, 0.6, d.Level)
	assert.False(t, d.Cautionary)
	assert.Empty(t, d.Instruction)
}

func TestGateLowConfidence(t *testing.T) {
	d := Gate(passages(0.1, 0.3))
	assert.Equal(t, 0.3, d.Level)
	assert.True(t, d.Cautionary)
	assert.Contains(t, d.Instruction, "guarded language")
}

func TestGateThresholdBoundary(t *testing.T) {
	// Exactly at the threshold is not cautionary.
	d := Gate(passages(0.35))
	assert.False(t, d.Cautionary)

	d = Gate(passages(0.3499))
	assert.True(t, d.Cautionary)
}

package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func q(correct, difficulty int) Question {
	return Question{Text: "q", Options: []string{"a", "b", "c", "d"}, Correct: correct, Difficulty: difficulty}
}

func TestScore_WeightsByDifficulty(t *testing.T) {
	qs := []Question{q(0, 1), q(1, 3)}

	score, correct, err := Score(qs, []int{0, 2})
	require.NoError(t, err)
	assert.Equal(t, 1, correct)
	assert.InDelta(t, 0.25, score, 1e-9)

	score, correct, err = Score(qs, []int{3, 1})
	require.NoError(t, err)
	assert.Equal(t, 1, correct)
	assert.InDelta(t, 0.75, score, 1e-9)
}

func TestScore_Unanswered(t *testing.T) {
	score, correct, err := Score([]Question{q(0, 2), q(0, 2)}, []int{Unanswered, 0})
	require.NoError(t, err)
	assert.Equal(t, 1, correct)
	assert.InDelta(t, 0.5, score, 1e-9)
}

func TestScore_AnswerCount(t *testing.T) {
	_, _, err := Score([]Question{q(0, 1)}, []int{0, 1})
	assert.ErrorIs(t, err, ErrAnswerCount)
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		score float64
		want  int
	}{
		{0, 0},
		{0.19, 0},
		{0.2, 1},
		{0.34, 1},
		{0.35, 2},
		{0.5, 3},
		{0.69, 3},
		{0.7, 4},
		{0.89, 4},
		{0.9, 5},
		{1, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.score), "score %v", tt.score)
	}
}

func TestConfidenceFor(t *testing.T) {
	assert.InDelta(t, 0.6, ConfidenceFor(1), 1e-9)
	assert.InDelta(t, 1.0, ConfidenceFor(5), 1e-9)
	assert.Equal(t, 1.0, ConfidenceFor(20))
}

func TestValidateQuestions(t *testing.T) {
	good := q(2, 3)

	dup := good
	dup.Options = []string{"a", "B", "b", "c"}

	three := good
	three.Options = []string{"a", "b", "c"}

	badIdx := good
	badIdx.Correct = 4

	badDiff := good
	badDiff.Difficulty = 0

	empty := good
	empty.Text = "  "

	require.NoError(t, validateQuestions([]Question{good}))
	for name, bad := range map[string]Question{
		"duplicate options": dup,
		"three options":     three,
		"index":             badIdx,
		"difficulty":        badDiff,
		"empty text":        empty,
	} {
		err := validateQuestions([]Question{good, bad})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve, name)
		assert.Equal(t, 1, ve.Index, name)
	}
}

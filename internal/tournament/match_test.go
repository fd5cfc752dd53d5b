package tournament

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomScorerFormula(t *testing.T) {
	rng := &seqRand{vals: []float64{0.5, 0.2}}
	s := NewRandomScorer(rng)
	form := FormTable{"A": 2, "B": -1}

	// rankDiff = 5-8 = -3, formDiff = 2-(-1) = 3
	res, err := s.Score(team("A", 5), team("B", 8), form)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Score1) // floor(25 + 75 - 3 + 3)
	assert.Equal(t, 85, res.Score2)  // floor(10 + 75 + 3 - 3)
	assert.Equal(t, 2, rng.n, "each score takes its own draw")
	assert.Equal(t, 100, res.ScoreOf("A"))
	assert.Equal(t, 85, res.ScoreOf("B"))
	assert.Equal(t, 0, res.ScoreOf("C"))
}

func TestRandomScorerMissingFormIsZero(t *testing.T) {
	s := NewRandomScorer(&seqRand{vals: []float64{0}})
	form := FormTable{}

	res, err := s.Score(team("A", 3), team("B", 1), form)
	require.NoError(t, err)
	assert.Equal(t, 77, res.Score1)
	assert.Equal(t, 73, res.Score2)
	assert.Empty(t, form, "form is not mutated")
}

func TestRandomScorerMissingTeam(t *testing.T) {
	s := NewRandomScorer(rand.New(rand.NewSource(1)))

	res, err := s.Score(team("A", 3), nil, nil)
	assert.ErrorIs(t, err, ErrMissingTeam)
	assert.Equal(t, MatchResult{Team1: "A", Team2: "unknown"}, res)

	res, err = s.Score(nil, nil, nil)
	assert.ErrorIs(t, err, ErrMissingTeam)
	assert.Equal(t, 0, res.Score1)
	assert.Equal(t, 0, res.Score2)
}

func TestRandomScorerInvalidScore(t *testing.T) {
	s := NewRandomScorer(&seqRand{vals: []float64{math.NaN()}})

	res, err := s.Score(team("A", 3), team("B", 1), FormTable{})
	assert.ErrorIs(t, err, ErrInvalidScore)
	assert.Equal(t, 0, res.Score1)
	assert.Equal(t, 0, res.Score2)
}

func TestRandomScorerRange(t *testing.T) {
	s := NewRandomScorer(rand.New(rand.NewSource(42)))
	for i := 0; i < 1000; i++ {
		res, err := s.Score(team("A", 1), team("B", 1), nil)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.Score1, 75)
		assert.Less(t, res.Score1, 125)
		assert.GreaterOrEqual(t, res.Score2, 75)
		assert.Less(t, res.Score2, 125)
	}
}

func TestMatchWinnerTieGoesToTeam2(t *testing.T) {
	a, b := team("A", 1), team("B", 2)
	m := &Match{Team1: a, Team2: b, Score1: 80, Score2: 80}
	assert.Same(t, b, m.Winner())
	assert.Same(t, a, m.Loser())
	assert.Equal(t, "80:80", m.ScoreLine())

	m.Score1 = 81
	assert.Same(t, a, m.Winner())
	assert.Same(t, b, m.Loser())
}

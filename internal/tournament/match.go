package tournament

import (
	"fmt"
	"math"
)

// Rand is the source of randomness for match simulation. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Scorer produces the score of one match.
type Scorer interface {
	Score(team1, team2 *Team, form FormTable) (MatchResult, error)
}

// RandomScorer draws each score from U(0,50) + 75 shifted by ranking and form difference.
type RandomScorer struct {
	rng Rand
}

func NewRandomScorer(rng Rand) *RandomScorer {
	return &RandomScorer{rng: rng}
}

// Score simulates team1 against team2. The two scores use independent draws,
// so they may tie; they may also be negative for very lopsided pairings.
func (s *RandomScorer) Score(team1, team2 *Team, form FormTable) (MatchResult, error) {
	if team1 == nil || team2 == nil {
		return MatchResult{Team1: nameOf(team1), Team2: nameOf(team2)},
			fmt.Errorf("simulating %s vs %s: %w", nameOf(team1), nameOf(team2), ErrMissingTeam)
	}

	rankDiff := float64(team1.Ranking - team2.Ranking)
	formDiff := form.Of(team1.Name) - form.Of(team2.Name)

	score1 := math.Floor(s.rng.Float64()*50 + 75 + rankDiff + formDiff)
	score2 := math.Floor(s.rng.Float64()*50 + 75 - rankDiff - formDiff)

	res := MatchResult{Team1: team1.Name, Team2: team2.Name}
	if !finite(score1) || !finite(score2) {
		return res, fmt.Errorf("simulating %s vs %s: %w", team1.Name, team2.Name, ErrInvalidScore)
	}
	res.Score1, res.Score2 = int(score1), int(score2)
	return res, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func nameOf(t *Team) string {
	if t == nil {
		return "unknown"
	}
	return t.Name
}

package tournament

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedalTally(t *testing.T) {
	a, b, c := team("A", 1), team("B", 2), team("C", 3)
	tally := NewMedalTally()
	tally.Add(&Podium{Gold: a, Silver: b, Bronze: c})
	tally.Add(&Podium{Gold: b, Silver: a, Bronze: c})
	tally.Add(&Podium{Gold: a, Silver: c, Bronze: b})
	tally.Add(nil)

	assert.Equal(t, 4, tally.Trials())
	assert.Equal(t, 3, tally.Completed())
	assert.Equal(t, Medals{Gold: 2, Silver: 1}, tally.Of("A"))
	assert.Equal(t, Medals{}, tally.Of("Z"))

	rows := tally.Sorted()
	require.Len(t, rows, 3)
	assert.Equal(t, "A", rows[0].Team)
	assert.Equal(t, "B", rows[1].Team)
	assert.Equal(t, "C", rows[2].Team)
	assert.Equal(t, 3, rows[2].Total())
}

func TestMedalTallyOdds(t *testing.T) {
	a, b, c := team("A", 1), team("B", 2), team("C", 3)
	tally := NewMedalTally()
	tally.Add(&Podium{Gold: a, Silver: b, Bronze: c})
	tally.Add(&Podium{Gold: a, Silver: c, Bronze: b})
	tally.Add(nil)

	odds := tally.Odds()
	require.Len(t, odds, 3)
	assert.Equal(t, Odds{Team: "A", Gold: 66.67}, odds[0])
	assert.Equal(t, Odds{Team: "B", Silver: 33.33, Bronze: 33.33}, odds[1])
	assert.Empty(t, NewMedalTally().Odds())
}

func TestMedalTallyMerge(t *testing.T) {
	a, b, c := team("A", 1), team("B", 2), team("C", 3)
	x, y := NewMedalTally(), NewMedalTally()
	x.Add(&Podium{Gold: a, Silver: b, Bronze: c})
	y.Add(&Podium{Gold: a, Silver: c, Bronze: b})
	y.Add(nil)

	x.Merge(y)
	assert.Equal(t, 3, x.Trials())
	assert.Equal(t, 2, x.Completed())
	assert.Equal(t, Medals{Gold: 2}, x.Of("A"))
	assert.Equal(t, Medals{Silver: 1, Bronze: 1}, x.Of("B"))
}

func TestRunTrialsDeterministicScorer(t *testing.T) {
	tally, err := RunTrials(Tournament{Groups: twoGroups(), Exhibitions: History{}}, TrialOptions{
		Trials:    20,
		Workers:   3,
		NewScorer: func(*rand.Rand) Scorer { return rankingScorer{} },
	})
	require.NoError(t, err)
	assert.Equal(t, 20, tally.Trials())
	assert.Equal(t, 20, tally.Completed())
	assert.Equal(t, Medals{Gold: 20}, tally.Of("A1"))
	assert.Equal(t, Medals{Silver: 20}, tally.Of("A2"))
	assert.Equal(t, Medals{Bronze: 20}, tally.Of("B1"))
}

func TestRunTrialsReproducibleAcrossWorkers(t *testing.T) {
	tour := Tournament{Groups: twoGroups(), Exhibitions: History{}}

	one, err := RunTrials(tour, TrialOptions{Trials: 200, Seed: 5, Workers: 1})
	require.NoError(t, err)
	many, err := RunTrials(tour, TrialOptions{Trials: 200, Seed: 5, Workers: 8})
	require.NoError(t, err)

	assert.Equal(t, one.Sorted(), many.Sorted())
	assert.Equal(t, one.Completed(), many.Completed())

	gold := 0
	for _, r := range many.Sorted() {
		gold += r.Gold
	}
	assert.Equal(t, many.Completed(), gold)
}

func TestRunTrialsRejectsZeroTrials(t *testing.T) {
	_, err := RunTrials(Tournament{}, TrialOptions{})
	assert.Error(t, err)
}

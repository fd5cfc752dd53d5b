package tournament

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayGroupsRoundRobin(t *testing.T) {
	groups := []Group{
		{Name: "A", Teams: []*Team{team("A1", 1), team("A2", 5), team("A3", 9), team("A4", 13)}},
		{Name: "B", Teams: []*Team{team("B1", 2), team("B2", 6), team("B3", 10), team("B4", 14), team("B5", 18)}},
	}
	e := NewEngine(NewRandomScorer(rand.New(rand.NewSource(7))))

	results, err := e.PlayGroups(groups, FormTable{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	for i, g := range results {
		n := len(groups[i].Teams)
		assert.Equal(t, groups[i].Name, g.Name)
		assert.Len(t, g.Matches, n*(n-1)/2)

		seen := make(map[[2]string]bool)
		for _, m := range g.Matches {
			k := pairKey(m.Team1.Name, m.Team2.Name)
			assert.False(t, seen[k], "pairing %v repeated", k)
			assert.NotEqual(t, m.Team1.Name, m.Team2.Name)
			seen[k] = true
		}

		require.Len(t, g.Standings, n)
		for _, s := range g.Standings {
			assert.Equal(t, 2*s.Wins+s.Losses, s.Points, s.Name())
			assert.Equal(t, s.Scored-s.Conceded, s.PointDiff, s.Name())
			assert.Equal(t, n-1, s.Wins+s.Losses, s.Name())
			assert.Len(t, s.Results, n-1)
		}
		for j := 1; j < n; j++ {
			assert.GreaterOrEqual(t, g.Standings[j-1].Points, g.Standings[j].Points)
		}
	}
}

func TestPlayGroupsEqualScoresCountAsTeam2Win(t *testing.T) {
	e := NewEngine(fixedScorer{"A-B": {80, 80}})
	results, err := e.PlayGroups([]Group{{Name: "A", Teams: []*Team{team("A", 1), team("B", 2)}}}, nil)
	require.NoError(t, err)

	st := results[0].Standings
	assert.Equal(t, []string{"B", "A"}, names(st))
	assert.Equal(t, 1, st[0].Wins)
	assert.Equal(t, 2, st[0].Points)
	assert.Equal(t, 1, st[1].Losses)
	assert.Equal(t, 1, st[1].Points)
	assert.Equal(t, 0, st[0].PointDiff)
}

func TestPlayGroupsThreeWayTieUsesSubTable(t *testing.T) {
	// Each team wins once. Sub-table differential: A +5, B +20, C -25.
	e := NewEngine(fixedScorer{
		"A-B": {90, 80},
		"B-C": {100, 70},
		"A-C": {80, 85},
	})
	results, err := e.PlayGroups([]Group{{Name: "A", Teams: []*Team{team("A", 1), team("B", 2), team("C", 3)}}}, nil)
	require.NoError(t, err)

	st := results[0].Standings
	assert.Equal(t, []string{"B", "A", "C"}, names(st))
	for _, s := range st {
		assert.Equal(t, 3, s.Points)
	}
}

func TestPlayGroupsTwoWayTieUsesHeadToHead(t *testing.T) {
	// A and B win twice, C and D once. A has the better differential
	// but lost to B; D beat C.
	e := NewEngine(fixedScorer{
		"A-B": {79, 80},
		"A-C": {120, 60},
		"A-D": {120, 60},
		"B-C": {70, 71},
		"B-D": {81, 80},
		"C-D": {89, 90},
	})
	g := Group{Name: "A", Teams: []*Team{team("A", 1), team("B", 2), team("C", 3), team("D", 4)}}
	results, err := e.PlayGroups([]Group{g}, nil)
	require.NoError(t, err)

	st := results[0].Standings
	assert.Equal(t, []string{"B", "A", "D", "C"}, names(st))
	assert.Greater(t, st[1].PointDiff, st[0].PointDiff)
}

func TestRankGroupUnresolvedTieKeepsOrder(t *testing.T) {
	entries := []*StandingEntry{
		{Team: team("X", 1), Points: 3},
		{Team: team("Y", 2), Points: 4},
		{Team: team("Z", 3), Points: 3},
	}
	RankGroup(entries)
	assert.Equal(t, []string{"Y", "X", "Z"}, names(entries))
}

func TestRankGroupThreeWayEqualSubTableKeepsOrder(t *testing.T) {
	entries := []*StandingEntry{
		{Team: team("X", 1), Points: 3, Results: []HeadToHead{{Opponent: "Y", Scored: 80, Conceded: 70}, {Opponent: "Z", Scored: 70, Conceded: 80}}},
		{Team: team("Y", 2), Points: 3, Results: []HeadToHead{{Opponent: "X", Scored: 70, Conceded: 80}, {Opponent: "Z", Scored: 80, Conceded: 70}}},
		{Team: team("Z", 3), Points: 3, Results: []HeadToHead{{Opponent: "X", Scored: 80, Conceded: 70}, {Opponent: "Y", Scored: 70, Conceded: 80}}},
	}
	RankGroup(entries)
	assert.Equal(t, []string{"X", "Y", "Z"}, names(entries))
}

func TestPlayGroupsMissingInput(t *testing.T) {
	e := NewEngine(rankingScorer{})
	results, err := e.PlayGroups(nil, nil)
	assert.ErrorIs(t, err, ErrMissingInput)
	assert.Empty(t, results)
}

func TestPlayGroupsSkipsMissingTeam(t *testing.T) {
	e := NewEngine(rankingScorer{})
	g := Group{Name: "A", Teams: []*Team{team("A", 1), nil, team("B", 2), team("C", 3)}}

	results, err := e.PlayGroups([]Group{g}, nil)
	assert.ErrorIs(t, err, ErrMissingTeam)
	require.Len(t, results, 1)
	assert.Len(t, results[0].Matches, 3)
	assert.Equal(t, []string{"A", "B", "C"}, names(results[0].Standings))
}

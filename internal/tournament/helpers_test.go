package tournament

import "fmt"

// fixedScorer returns preset scores keyed "team1-team2"; unknown pairings score 0:0.
type fixedScorer map[string][2]int

func (f fixedScorer) Score(t1, t2 *Team, _ FormTable) (MatchResult, error) {
	res := MatchResult{Team1: t1.Name, Team2: t2.Name}
	if s, ok := f[t1.Name+"-"+t2.Name]; ok {
		res.Score1, res.Score2 = s[0], s[1]
	} else if s, ok := f[t2.Name+"-"+t1.Name]; ok {
		res.Score1, res.Score2 = s[1], s[0]
	}
	return res, nil
}

// rankingScorer scores every team 100 minus its ranking, so better ranked teams always win.
type rankingScorer struct{}

func (rankingScorer) Score(t1, t2 *Team, _ FormTable) (MatchResult, error) {
	return MatchResult{Team1: t1.Name, Team2: t2.Name, Score1: 100 - t1.Ranking, Score2: 100 - t2.Ranking}, nil
}

// seqRand replays fixed draws.
type seqRand struct {
	vals []float64
	n    int
}

func (s *seqRand) Float64() float64 {
	v := s.vals[s.n%len(s.vals)]
	s.n++
	return v
}

func team(name string, ranking int) *Team {
	return &Team{Name: name, ISOCode: name, Ranking: ranking}
}

// twoGroups builds groups A and B of four teams ranked A1=1, B1=2, A2=3 ... B4=8.
func twoGroups() []Group {
	groups := []Group{{Name: "A"}, {Name: "B"}}
	for i := 1; i <= 4; i++ {
		groups[0].Teams = append(groups[0].Teams, team(fmt.Sprintf("A%d", i), 2*i-1))
		groups[1].Teams = append(groups[1].Teams, team(fmt.Sprintf("B%d", i), 2*i))
	}
	return groups
}

func names(entries []*StandingEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name()
	}
	return out
}

package tournament

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

const (
	BandSize  = 2
	BandCount = 4
)

// crosses pairs the top bands against the bottom ones: 1 vs 4, 2 vs 3.
var crosses = [][2]int{{0, 3}, {1, 2}}

// RankAll concatenates the standings of every group and sorts them by
// points, point differential and points scored, all descending.
func RankAll(results []GroupResult) []*StandingEntry {
	var ranked []*StandingEntry
	for _, g := range results {
		ranked = append(ranked, g.Standings...)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.PointDiff != b.PointDiff {
			return a.PointDiff > b.PointDiff
		}
		return a.Scored > b.Scored
	})
	return ranked
}

// Bands splits the top of the global ranking into BandCount bands of BandSize.
// Teams ranked below the last band do not qualify.
func Bands(ranked []*StandingEntry) ([]Band, error) {
	need := BandSize * BandCount
	if len(ranked) < need {
		return nil, fmt.Errorf("%w: need %d ranked teams, have %d", ErrInvalidBands, need, len(ranked))
	}
	bands := make([]Band, BandCount)
	for i := range bands {
		bands[i] = Band(ranked[i*BandSize : (i+1)*BandSize])
	}
	return bands, nil
}

// Pairings is the set of unordered pairs that met in the group stage.
type Pairings map[[2]string]struct{}

// PlayedPairs collects every group stage pairing.
func PlayedPairs(results []GroupResult) Pairings {
	p := make(Pairings)
	for _, g := range results {
		for _, m := range g.Matches {
			if m.Team1 != nil && m.Team2 != nil {
				p[pairKey(m.Team1.Name, m.Team2.Name)] = struct{}{}
			}
		}
	}
	return p
}

// Met reports whether a and b played each other.
func (p Pairings) Met(a, b string) bool {
	_, ok := p[pairKey(a, b)]
	return ok
}

func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

// Draw builds the quarterfinal bracket. Each team of the higher band takes
// the first unused team of the opposite band it has not met yet. There is
// no backtracking: the draw fails as soon as a team runs out of candidates,
// even if another assignment would have worked.
func (e *Engine) Draw(bands []Band, played Pairings) ([]BracketPair, error) {
	if len(bands) != BandCount {
		return nil, fmt.Errorf("drawing: %w: %d bands", ErrInvalidBands, len(bands))
	}
	for i, b := range bands {
		if len(b) != BandSize {
			return nil, fmt.Errorf("drawing: %w: band %d has %d teams", ErrInvalidBands, i+1, len(b))
		}
	}

	var pairs []BracketPair
	var leftover []string
	for _, c := range crosses {
		top, bottom := bands[c[0]], bands[c[1]]
		used := make([]bool, len(bottom))
		for _, t := range top {
			j := firstCandidate(t, bottom, used, played)
			if j < 0 {
				err := fmt.Errorf("drawing band %d vs %d: %w for %s", c[0]+1, c[1]+1, ErrNoValidOpponent, t.Name())
				e.log.WithError(err).Error("quarterfinal draw failed")
				return nil, err
			}
			used[j] = true
			pairs = append(pairs, BracketPair{Team1: t.Team, Team2: bottom[j].Team})
		}
		for j, u := range used {
			if !u {
				leftover = append(leftover, bottom[j].Name())
			}
		}
	}
	if len(leftover) > 0 {
		e.log.WithField("teams", leftover).Info("teams left unpaired in draw")
	}
	return pairs, nil
}

func firstCandidate(t *StandingEntry, bottom Band, used []bool, played Pairings) int {
	for j, o := range bottom {
		if !used[j] && !played.Met(t.Name(), o.Name()) {
			return j
		}
	}
	return -1
}

// Seed ranks all group survivors, forms the bands and draws the bracket.
func (e *Engine) Seed(results []GroupResult) ([]*StandingEntry, []Band, []BracketPair, error) {
	ranked := RankAll(results)
	bands, err := Bands(ranked)
	if err != nil {
		e.log.WithError(err).WithFields(logrus.Fields{"ranked": len(ranked)}).Error("seeding failed")
		return ranked, nil, nil, err
	}
	pairs, err := e.Draw(bands, PlayedPairs(results))
	if err != nil {
		return ranked, bands, nil, err
	}
	return ranked, bands, pairs, nil
}

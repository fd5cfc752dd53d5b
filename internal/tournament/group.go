package tournament

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// PlayGroups simulates every unordered pair within each group exactly once
// and returns the matches and ranked standings per group, in group order.
func (e *Engine) PlayGroups(groups []Group, form FormTable) ([]GroupResult, error) {
	if len(groups) == 0 {
		e.log.Error("no groups to simulate")
		return nil, fmt.Errorf("playing groups: %w: groups", ErrMissingInput)
	}

	var errs []error
	results := make([]GroupResult, 0, len(groups))
	for _, g := range groups {
		res, err := e.playGroup(g, form)
		if err != nil {
			errs = append(errs, err)
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

func (e *Engine) playGroup(g Group, form FormTable) (GroupResult, error) {
	log := e.log.WithField("group", g.Name)
	var errs []error

	teams := make([]*Team, 0, len(g.Teams))
	for i, t := range g.Teams {
		if t == nil {
			err := fmt.Errorf("group %s entry %d: %w", g.Name, i, ErrMissingTeam)
			log.WithError(err).Error("malformed group entry skipped")
			errs = append(errs, err)
			continue
		}
		teams = append(teams, t)
	}

	entries := make([]*StandingEntry, len(teams))
	for i, t := range teams {
		entries[i] = &StandingEntry{Team: t}
	}

	res := GroupResult{Name: g.Name}
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			m, err := e.play(teams[i], teams[j], form)
			if err != nil {
				errs = append(errs, fmt.Errorf("group %s: %w", g.Name, err))
			}
			applyResult(entries[i], entries[j], m)
			res.Matches = append(res.Matches, m)
		}
	}

	RankGroup(entries)
	res.Standings = entries
	log.WithFields(logrus.Fields{
		"matches": len(res.Matches),
		"leader":  leaderName(entries),
	}).Debug("group stage complete")
	return res, errors.Join(errs...)
}

// applyResult updates both standings with one match. Team1 wins only on a
// strictly greater score, so equal scores count as a Team2 win.
func applyResult(e1, e2 *StandingEntry, m *Match) {
	e1.record(e2.Name(), m.Score1, m.Score2)
	e2.record(e1.Name(), m.Score2, m.Score1)
	if m.Score1 > m.Score2 {
		e1.win()
		e2.lose()
	} else {
		e2.win()
		e1.lose()
	}
}

// RankGroup sorts group standings by points. Teams level on points are
// ordered by the point differential of the matches among them when exactly
// three are level, and by their head-to-head result otherwise.
// Anything those rules leave level keeps its input order.
func RankGroup(entries []*StandingEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
	for i := 0; i < len(entries); {
		j := i + 1
		for j < len(entries) && entries[j].Points == entries[i].Points {
			j++
		}
		breakTie(entries[i:j])
		i = j
	}
}

func breakTie(tied []*StandingEntry) {
	switch {
	case len(tied) < 2:
		return
	case len(tied) == 3:
		diff := subTableDiff(tied)
		sort.SliceStable(tied, func(i, j int) bool {
			return diff[tied[i].Name()] > diff[tied[j].Name()]
		})
	default:
		sort.SliceStable(tied, func(i, j int) bool {
			h, ok := tied[i].against(tied[j].Name())
			return ok && h.Diff() > 0
		})
	}
}

// subTableDiff sums each team's differential over matches played among the tied teams only.
func subTableDiff(tied []*StandingEntry) map[string]int {
	in := make(map[string]bool, len(tied))
	for _, e := range tied {
		in[e.Name()] = true
	}
	diff := make(map[string]int, len(tied))
	for _, e := range tied {
		for _, r := range e.Results {
			if in[r.Opponent] {
				diff[e.Name()] += r.Diff()
			}
		}
	}
	return diff
}

func leaderName(entries []*StandingEntry) string {
	if len(entries) == 0 {
		return ""
	}
	return entries[0].Name()
}

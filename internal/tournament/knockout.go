package tournament

import (
	"errors"
	"fmt"
)

type Round int

const (
	Quarterfinal Round = iota
	Semifinal
	ThirdPlace
	Final
)

func (r Round) String() string {
	switch r {
	case Quarterfinal:
		return "quarterfinal"
	case Semifinal:
		return "semifinal"
	case ThirdPlace:
		return "third place"
	case Final:
		return "final"
	}
	return "unknown"
}

// KnockoutResult holds every knockout match. A round that could not be
// played is left empty and Podium is nil.
type KnockoutResult struct {
	Quarterfinals []*Match `json:"quarterfinals"`
	Semifinals    []*Match `json:"semifinals"`
	ThirdPlace    *Match   `json:"thirdPlace,omitempty"`
	Final         *Match   `json:"final,omitempty"`
	Podium        *Podium  `json:"podium,omitempty"`
}

// PlayKnockout runs quarterfinals, semifinals, the third place match and
// the final. Quarterfinal winners meet in bracket order: 1 vs 2, 3 vs 4.
func (e *Engine) PlayKnockout(bracket []BracketPair, form FormTable) (*KnockoutResult, error) {
	res := &KnockoutResult{}
	var errs []error

	qfTeams := make([]*Team, 0, 2*len(bracket))
	for _, p := range bracket {
		qfTeams = append(qfTeams, p.Team1, p.Team2)
	}
	var semiTeams []*Team
	res.Quarterfinals, semiTeams, _, errs = e.round(Quarterfinal, qfTeams, 8, form, errs)

	var finalists, thirdPlace []*Team
	res.Semifinals, finalists, thirdPlace, errs = e.round(Semifinal, semiTeams, 4, form, errs)

	var bronze, gold, silver []*Team
	var matches []*Match
	if matches, bronze, _, errs = e.round(ThirdPlace, thirdPlace, 2, form, errs); len(matches) == 1 {
		res.ThirdPlace = matches[0]
	}
	if matches, gold, silver, errs = e.round(Final, finalists, 2, form, errs); len(matches) == 1 {
		res.Final = matches[0]
	}

	if len(gold) == 1 && len(silver) == 1 && len(bronze) == 1 {
		res.Podium = &Podium{Gold: gold[0], Silver: silver[0], Bronze: bronze[0]}
	} else {
		errs = append(errs, fmt.Errorf("knockout: %w: podium incomplete", ErrRoundSize))
	}
	return res, errors.Join(errs...)
}

// round pairs teams consecutively and returns the matches, winners and
// losers. The round is skipped when the team count is not want or a
// participant is missing.
func (e *Engine) round(r Round, teams []*Team, want int, form FormTable, errs []error) ([]*Match, []*Team, []*Team, []error) {
	log := e.log.WithField("round", r.String())
	if len(teams) != want {
		err := fmt.Errorf("%s: %w: want %d teams, have %d", r, ErrRoundSize, want, len(teams))
		log.WithError(err).Error("round skipped")
		return nil, nil, nil, append(errs, err)
	}
	for _, t := range teams {
		if t == nil {
			err := fmt.Errorf("%s: %w", r, ErrMissingTeam)
			log.WithError(err).Error("round skipped")
			return nil, nil, nil, append(errs, err)
		}
	}

	matches := make([]*Match, 0, want/2)
	winners := make([]*Team, 0, want/2)
	losers := make([]*Team, 0, want/2)
	for i := 0; i < len(teams); i += 2 {
		m, err := e.play(teams[i], teams[i+1], form)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r, err))
		}
		matches = append(matches, m)
		winners = append(winners, m.Winner())
		losers = append(losers, m.Loser())
	}
	return matches, winners, losers, errs
}

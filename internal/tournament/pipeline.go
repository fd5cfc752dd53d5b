package tournament

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// Tournament is the input of one simulation.
type Tournament struct {
	Groups      []Group `json:"groups"`
	Exhibitions History `json:"exhibitions"`
}

// Simulation is everything one pipeline run produced.
type Simulation struct {
	Form     FormTable        `json:"form"`
	Groups   []GroupResult    `json:"groups"`
	Ranking  []*StandingEntry `json:"ranking"`
	Bands    []Band           `json:"bands,omitempty"`
	Bracket  []BracketPair    `json:"bracket,omitempty"`
	Knockout *KnockoutResult  `json:"knockout,omitempty"`
}

// Podium returns the final podium, nil when the knockout did not complete.
func (s *Simulation) Podium() *Podium {
	if s.Knockout == nil {
		return nil
	}
	return s.Knockout.Podium
}

// Run computes form once, then plays the group stage, draws the bracket
// and plays the knockout with that same form. Non-fatal conditions are
// returned joined alongside whatever was produced; a failed draw skips
// the knockout entirely.
func (e *Engine) Run(t Tournament) (*Simulation, error) {
	var errs []error

	form, err := CalculateForm(t.Groups, t.Exhibitions)
	if err != nil {
		e.log.WithError(err).Warn("form calculation degraded")
		errs = append(errs, err)
	}
	sim := &Simulation{Form: form}

	sim.Groups, err = e.PlayGroups(t.Groups, form)
	if err != nil {
		errs = append(errs, err)
	}

	sim.Ranking, sim.Bands, sim.Bracket, err = e.Seed(sim.Groups)
	if err != nil {
		e.log.WithError(err).Error("no valid quarterfinal matches, knockout skipped")
		return sim, errors.Join(append(errs, err)...)
	}

	sim.Knockout, err = e.PlayKnockout(sim.Bracket, form)
	if err != nil {
		errs = append(errs, err)
	}
	if p := sim.Podium(); p != nil {
		e.log.WithFields(logrus.Fields{
			"gold":   p.Gold.Name,
			"silver": p.Silver.Name,
			"bronze": p.Bronze.Name,
		}).Debug("tournament complete")
	}
	return sim, errors.Join(errs...)
}

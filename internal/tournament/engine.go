package tournament

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Engine runs the tournament stages. It is not safe for concurrent use;
// run one Engine per trial.
type Engine struct {
	scorer Scorer
	log    logrus.FieldLogger
}

type Option func(*Engine)

// WithLogger sets the logger non-fatal conditions are reported to.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = l }
}

func NewEngine(scorer Scorer, opts ...Option) *Engine {
	e := &Engine{scorer: scorer}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		e.log = l
	}
	return e
}

// play simulates one match. A scorer error is logged and the zero
// scores it returned are kept.
func (e *Engine) play(team1, team2 *Team, form FormTable) (*Match, error) {
	res, err := e.scorer.Score(team1, team2, form)
	if err != nil {
		e.log.WithError(err).WithFields(logrus.Fields{
			"team1": nameOf(team1),
			"team2": nameOf(team2),
		}).Error("match simulation failed, using zero scores")
		return &Match{Team1: team1, Team2: team2}, err
	}
	return &Match{Team1: team1, Team2: team2, Score1: res.Score1, Score2: res.Score2}, nil
}

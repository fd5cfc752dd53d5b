package tournament

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// Medals counts podium finishes of one team.
type Medals struct {
	Gold   int `json:"gold"`
	Silver int `json:"silver"`
	Bronze int `json:"bronze"`
}

// Total is the number of podium finishes.
func (m Medals) Total() int { return m.Gold + m.Silver + m.Bronze }

// TeamMedals is one row of a sorted tally.
type TeamMedals struct {
	Team string `json:"team"`
	Medals
}

// MedalTally accumulates podiums across trials. It is safe for concurrent use.
type MedalTally struct {
	mu        sync.Mutex
	trials    int
	completed int
	counts    map[string]*Medals
}

func NewMedalTally() *MedalTally {
	return &MedalTally{counts: make(map[string]*Medals)}
}

// Add records one trial. A nil podium counts as a trial without medals.
func (t *MedalTally) Add(p *Podium) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.trials++
	if p == nil {
		return
	}
	t.completed++
	t.medals(p.Gold.Name).Gold++
	t.medals(p.Silver.Name).Silver++
	t.medals(p.Bronze.Name).Bronze++
}

// Merge folds another tally into t.
func (t *MedalTally) Merge(o *MedalTally) {
	o.mu.Lock()
	defer o.mu.Unlock()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.trials += o.trials
	t.completed += o.completed
	for team, m := range o.counts {
		mine := t.medals(team)
		mine.Gold += m.Gold
		mine.Silver += m.Silver
		mine.Bronze += m.Bronze
	}
}

// Set overwrites the counts of one team, used when loading a stored tally.
func (t *MedalTally) Set(team string, m Medals) {
	t.mu.Lock()
	defer t.mu.Unlock()
	*t.medals(team) = m
}

// SetTrials overwrites the trial counters.
func (t *MedalTally) SetTrials(trials, completed int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.trials, t.completed = trials, completed
}

func (t *MedalTally) medals(team string) *Medals {
	m, ok := t.counts[team]
	if !ok {
		m = &Medals{}
		t.counts[team] = m
	}
	return m
}

// Trials is the number of trials added.
func (t *MedalTally) Trials() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.trials
}

// Completed is the number of trials that produced a podium.
func (t *MedalTally) Completed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completed
}

// Of returns the medals of one team.
func (t *MedalTally) Of(team string) Medals {
	t.mu.Lock()
	defer t.mu.Unlock()
	if m, ok := t.counts[team]; ok {
		return *m
	}
	return Medals{}
}

// Sorted orders teams by gold, silver, bronze descending, then name.
func (t *MedalTally) Sorted() []TeamMedals {
	t.mu.Lock()
	rows := make([]TeamMedals, 0, len(t.counts))
	for team, m := range t.counts {
		rows = append(rows, TeamMedals{Team: team, Medals: *m})
	}
	t.mu.Unlock()

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Gold != b.Gold {
			return a.Gold > b.Gold
		}
		if a.Silver != b.Silver {
			return a.Silver > b.Silver
		}
		if a.Bronze != b.Bronze {
			return a.Bronze > b.Bronze
		}
		return a.Team < b.Team
	})
	return rows
}

// Odds is the share of trials in which a team won each medal, in percent.
type Odds struct {
	Team   string  `json:"team"`
	Gold   float64 `json:"gold"`
	Silver float64 `json:"silver"`
	Bronze float64 `json:"bronze"`
}

// Odds turns the counts into percentages of all trials, rounded to two
// decimals, in Sorted order.
func (t *MedalTally) Odds() []Odds {
	trials := t.Trials()
	rows := t.Sorted()
	odds := make([]Odds, 0, len(rows))
	for _, r := range rows {
		odds = append(odds, Odds{
			Team:   r.Team,
			Gold:   percent(r.Gold, trials),
			Silver: percent(r.Silver, trials),
			Bronze: percent(r.Bronze, trials),
		})
	}
	return odds
}

func percent(count, trials int) float64 {
	if trials == 0 {
		return 0
	}
	p := float64(count) / float64(trials) * 100.0
	return math.Round(p*100) / 100
}

// TrialOptions configures RunTrials.
type TrialOptions struct {
	Trials  int
	Seed    int64
	Workers int
	Logger  logrus.FieldLogger
	// NewScorer builds the scorer of one trial. Defaults to a RandomScorer.
	NewScorer func(rng *rand.Rand) Scorer
}

// RunTrials runs independent pipelines across workers. Trial i draws from
// its own source seeded Seed+i, so a run is reproducible for a fixed seed
// whatever the worker count.
func RunTrials(t Tournament, opts TrialOptions) (*MedalTally, error) {
	if opts.Trials <= 0 {
		return nil, fmt.Errorf("running trials: trials must be positive, got %d", opts.Trials)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > opts.Trials {
		workers = opts.Trials
	}
	newScorer := opts.NewScorer
	if newScorer == nil {
		newScorer = func(rng *rand.Rand) Scorer { return NewRandomScorer(rng) }
	}

	total := NewMedalTally()
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			local := NewMedalTally()
			for i := w; i < opts.Trials; i += workers {
				rng := rand.New(rand.NewSource(opts.Seed + int64(i)))
				var engineOpts []Option
				if opts.Logger != nil {
					engineOpts = append(engineOpts, WithLogger(opts.Logger.WithField("trial", i)))
				}
				sim, _ := NewEngine(newScorer(rng), engineOpts...).Run(t)
				local.Add(sim.Podium())
			}
			total.Merge(local)
		}(w)
	}
	wg.Wait()
	return total, nil
}

package tournament

import "fmt"

// Team represents a national side entered in the tournament.
type Team struct {
	Name    string `json:"Team" yaml:"Team"`
	ISOCode string `json:"ISOCode" yaml:"ISOCode"`
	Ranking int    `json:"FIBARanking" yaml:"FIBARanking"`
}

// Group is an ordered list of teams playing a round robin.
type Group struct {
	Name  string  `json:"name"`
	Teams []*Team `json:"teams"`
}

// ExhibitionMatch is a friendly played before the tournament.
// Result is "own-opponent", e.g. "66-90".
type ExhibitionMatch struct {
	Date     string `json:"Date" yaml:"Date"`
	Opponent string `json:"Opponent" yaml:"Opponent"`
	Result   string `json:"Result" yaml:"Result"`
}

// History holds exhibition matches keyed by team ISO code or name.
type History map[string][]ExhibitionMatch

// FormTable maps team name to form score.
type FormTable map[string]float64

// Of returns the form of the named team, 0 when it has none.
func (f FormTable) Of(team string) float64 {
	return f[team]
}

// MatchResult is the score of a single simulated match.
type MatchResult struct {
	Team1, Team2   string
	Score1, Score2 int
}

// ScoreOf returns the score of the named participant.
func (r MatchResult) ScoreOf(team string) int {
	switch team {
	case r.Team1:
		return r.Score1
	case r.Team2:
		return r.Score2
	}
	return 0
}

// Match is a played fixture between two teams.
type Match struct {
	Team1  *Team `json:"team1"`
	Team2  *Team `json:"team2"`
	Score1 int   `json:"score1"`
	Score2 int   `json:"score2"`
}

// ScoreLine renders the score as "score1:score2".
func (m *Match) ScoreLine() string {
	return fmt.Sprintf("%d:%d", m.Score1, m.Score2)
}

// Winner returns the higher scorer. Equal scores go to Team2.
func (m *Match) Winner() *Team {
	if m.Score1 > m.Score2 {
		return m.Team1
	}
	return m.Team2
}

// Loser returns the team that did not win.
func (m *Match) Loser() *Team {
	if m.Winner() == m.Team1 {
		return m.Team2
	}
	return m.Team1
}

// HeadToHead is one group match seen from one side.
type HeadToHead struct {
	Opponent string `json:"opponent"`
	Scored   int    `json:"scored"`
	Conceded int    `json:"conceded"`
}

// Diff is own score minus conceded score.
func (h HeadToHead) Diff() int { return h.Scored - h.Conceded }

// StandingEntry holds the group standings info for one team.
type StandingEntry struct {
	Team      *Team        `json:"team"`
	Wins      int          `json:"wins"`
	Losses    int          `json:"losses"`
	Points    int          `json:"points"`
	Scored    int          `json:"scored"`
	Conceded  int          `json:"conceded"`
	PointDiff int          `json:"pointDiff"`
	Results   []HeadToHead `json:"results"`
}

// Name returns the team name of the entry.
func (e *StandingEntry) Name() string { return e.Team.Name }

func (e *StandingEntry) record(opponent string, scored, conceded int) {
	e.Scored += scored
	e.Conceded += conceded
	e.PointDiff += scored - conceded
	e.Results = append(e.Results, HeadToHead{Opponent: opponent, Scored: scored, Conceded: conceded})
}

func (e *StandingEntry) win() {
	e.Wins++
	e.Points += 2
}

func (e *StandingEntry) lose() {
	e.Losses++
	e.Points++
}

// against returns the match this team played against opponent.
func (e *StandingEntry) against(opponent string) (HeadToHead, bool) {
	for _, r := range e.Results {
		if r.Opponent == opponent {
			return r, true
		}
	}
	return HeadToHead{}, false
}

// GroupResult is the outcome of one group's round robin.
type GroupResult struct {
	Name      string           `json:"name"`
	Matches   []*Match         `json:"matches"`
	Standings []*StandingEntry `json:"standings"`
}

// Band is a slice of the global ranking used to seed the draw ("hat").
type Band []*StandingEntry

// BracketPair is a knockout fixture.
type BracketPair struct {
	Team1 *Team `json:"team1"`
	Team2 *Team `json:"team2"`
}

// Podium is the final gold, silver, bronze order.
type Podium struct {
	Gold   *Team `json:"gold"`
	Silver *Team `json:"silver"`
	Bronze *Team `json:"bronze"`
}

// Places returns the podium teams in medal order.
func (p *Podium) Places() []*Team {
	return []*Team{p.Gold, p.Silver, p.Bronze}
}

// Package render formats simulation results as console tables.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/utakatalp/tournament-simulator/internal/tournament"
)

const (
	matchRule     = "+----------------------+-----------+----------------------+"
	matchHeader   = "|        Team 1        |   Score   |        Team 2        |"
	standingsRule = "+----------------------+--------+--------+--------+----------+------------+------------+"
	standingsHead = "|        Team          |  Wins  | Losses | Points |  Scored  |  Conceded  | Point Diff |"
	medalRule     = "+--------------------+"
)

func banner(w io.Writer, title string, width int) {
	rule := strings.Repeat("=", width)
	fmt.Fprintf(w, "\n\n%s\n%s\n%s\n", rule, center(title, width), rule)
}

// center pads text on both sides to width; longer text is returned as is.
func center(text string, width int) string {
	pad := width - utf8.RuneCountInString(text)
	if pad <= 0 {
		return text
	}
	left := pad / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", pad-left)
}

func matchRow(w io.Writer, m *tournament.Match) {
	fmt.Fprintf(w, "| %s | %s | %s |\n",
		center(teamName(m.Team1), 20), center(m.ScoreLine(), 9), center(teamName(m.Team2), 20))
}

func teamName(t *tournament.Team) string {
	if t == nil {
		return "?"
	}
	return t.Name
}

// GroupResults prints every group match.
func GroupResults(w io.Writer, results []tournament.GroupResult) {
	banner(w, "Group phase results", 58)
	for _, g := range results {
		fmt.Fprintf(w, "\nGroup %s:\n%s\n%s\n%s\n", g.Name, matchRule, matchHeader, matchRule)
		for _, m := range g.Matches {
			matchRow(w, m)
		}
		fmt.Fprintln(w, matchRule)
	}
}

// Standings prints the final table of every group.
func Standings(w io.Writer, results []tournament.GroupResult) {
	banner(w, "Final standings in groups", 88)
	for _, g := range results {
		fmt.Fprintf(w, "\nGroup %s:\n%s\n%s\n%s\n", g.Name, standingsRule, standingsHead, standingsRule)
		for _, e := range g.Standings {
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s |\n",
				center(e.Name(), 20),
				center(fmt.Sprint(e.Wins), 6),
				center(fmt.Sprint(e.Losses), 6),
				center(fmt.Sprint(e.Points), 6),
				center(fmt.Sprint(e.Scored), 8),
				center(fmt.Sprint(e.Conceded), 10),
				center(fmt.Sprint(e.PointDiff), 10),
			)
		}
		fmt.Fprintln(w, standingsRule)
	}
}

// Bands prints the seeding hats.
func Bands(w io.Writer, bands []tournament.Band) {
	banner(w, "Hats", 58)
	for i, b := range bands {
		names := make([]string, len(b))
		for j, e := range b {
			names[j] = e.Name()
		}
		fmt.Fprintf(w, "  Hat %c: %s\n", 'D'+rune(i), strings.Join(names, ", "))
	}
}

func round(w io.Writer, title string, matches ...*tournament.Match) {
	banner(w, title, 58)
	fmt.Fprintf(w, "%s\n%s\n%s\n", matchRule, matchHeader, matchRule)
	for _, m := range matches {
		if m != nil {
			matchRow(w, m)
		}
	}
	fmt.Fprintln(w, matchRule)
}

// Knockout prints the elimination rounds that were played.
func Knockout(w io.Writer, k *tournament.KnockoutResult) {
	if k == nil {
		return
	}
	if len(k.Quarterfinals) > 0 {
		round(w, "Quarterfinal", k.Quarterfinals...)
	}
	if len(k.Semifinals) > 0 {
		round(w, "Semifinal", k.Semifinals...)
	}
	if k.ThirdPlace != nil {
		round(w, "Third place match", k.ThirdPlace)
	}
	if k.Final != nil {
		round(w, "Final", k.Final)
	}
}

// Podium prints the medal table.
func Podium(w io.Writer, p *tournament.Podium) {
	if p == nil {
		return
	}
	banner(w, "Medals", 22)
	fmt.Fprintln(w, medalRule)
	for i, t := range p.Places() {
		fmt.Fprintf(w, "| %s |\n", center(fmt.Sprintf("%d. %s", i+1, teamName(t)), 18))
		fmt.Fprintln(w, medalRule)
	}
}

// Simulation prints a whole run.
func Simulation(w io.Writer, sim *tournament.Simulation) {
	GroupResults(w, sim.Groups)
	Standings(w, sim.Groups)
	if len(sim.Bands) > 0 {
		Bands(w, sim.Bands)
	}
	Knockout(w, sim.Knockout)
	Podium(w, sim.Podium())
}

// Tally writes the medal counts of a batch.
func Tally(w io.Writer, tally *tournament.MedalTally) {
	fmt.Fprintf(w, "Results after %d simulations:\n", tally.Trials())
	fmt.Fprintln(w, "========================================")
	for _, r := range tally.Sorted() {
		fmt.Fprintf(w, "%s - Gold: %d, Silver: %d, Bronze: %d\n", r.Team, r.Gold, r.Silver, r.Bronze)
	}
}

// AppendTally appends the tally to the log file at path.
func AppendTally(path string, tally *tournament.MedalTally) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening results log: %w", err)
	}
	Tally(f, tally)
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing results log: %w", err)
	}
	return nil
}

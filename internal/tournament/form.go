package tournament

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultOpponentRanking is used when an exhibition opponent is not in the roster.
const DefaultOpponentRanking = 10

// CalculateForm averages (ownScore - opponentScore + opponentRanking/100)
// over each team's exhibition matches. Teams without history get no entry.
// Malformed results are skipped and reported.
func CalculateForm(groups []Group, history History) (FormTable, error) {
	form := make(FormTable)
	if len(groups) == 0 || history == nil {
		return form, fmt.Errorf("calculating form: %w: roster or exhibitions", ErrMissingInput)
	}

	byISO := make(map[string]*Team)
	for _, g := range groups {
		for _, t := range g.Teams {
			if t != nil {
				byISO[t.ISOCode] = t
			}
		}
	}

	var errs []error
	for key, matches := range history {
		name := key
		if t, ok := byISO[key]; ok {
			name = t.Name
		}

		sum, played := 0.0, 0
		for _, m := range matches {
			own, opp, err := parseResult(m.Result)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s vs %s: %w", name, m.Opponent, err))
				continue
			}
			ranking := DefaultOpponentRanking
			if t, ok := byISO[m.Opponent]; ok {
				ranking = t.Ranking
			}
			sum += float64(own-opp) + float64(ranking)/100
			played++
		}
		if played > 0 {
			form[name] = sum / float64(played)
		}
	}
	return form, errors.Join(errs...)
}

func parseResult(result string) (own, opponent int, err error) {
	parts := strings.SplitN(result, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedResult, result)
	}
	if own, err = strconv.Atoi(strings.TrimSpace(parts[0])); err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedResult, result)
	}
	if opponent, err = strconv.Atoi(strings.TrimSpace(parts[1])); err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedResult, result)
	}
	return own, opponent, nil
}

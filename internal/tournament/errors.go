package tournament

import "errors"

var (
	ErrMissingInput    = errors.New("missing input data")
	ErrMalformedResult = errors.New("malformed exhibition result")
	ErrMissingTeam     = errors.New("missing team")
	ErrInvalidScore    = errors.New("invalid score")
	ErrInvalidBands    = errors.New("invalid ranking bands")
	ErrNoValidOpponent = errors.New("no valid opponent")
	ErrRoundSize       = errors.New("wrong team count for round")
)

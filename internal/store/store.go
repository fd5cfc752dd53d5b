package store

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/utakatalp/tournament-simulator/internal/tournament"
)

// Store wraps a Postgres connection and provides methods to persist and retrieve tournament data.
type Store struct {
	DB *sql.DB
}

// Run is a persisted batch of simulations.
type Run struct {
	ID        uuid.UUID `json:"id"`
	Trials    int       `json:"trials"`
	Completed int       `json:"completed"`
	Seed      int64     `json:"seed"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewStore opens a Postgres connection using the given connection string.
func NewStore(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// verify early
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Store{DB: db}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// Migrate creates the necessary tables if they do not exist.
func (s *Store) Migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS teams (
        name       TEXT PRIMARY KEY,
        iso_code   TEXT NOT NULL UNIQUE,
        ranking    INT  NOT NULL,
        group_name TEXT NOT NULL,
        position   INT  NOT NULL
    );`,
		`CREATE TABLE IF NOT EXISTS exhibitions (
        id           SERIAL PRIMARY KEY,
        team_iso     TEXT NOT NULL,
        opponent_iso TEXT NOT NULL,
        result       TEXT NOT NULL,
        played_on    TEXT NOT NULL DEFAULT ''
    );`,
		`CREATE TABLE IF NOT EXISTS simulation_runs (
        id         UUID PRIMARY KEY,
        trials     INT    NOT NULL,
        completed  INT    NOT NULL,
        seed       BIGINT NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    );`,
		`CREATE TABLE IF NOT EXISTS medal_tallies (
        run_id UUID NOT NULL REFERENCES simulation_runs(id) ON DELETE CASCADE,
        team   TEXT NOT NULL,
        gold   INT  NOT NULL DEFAULT 0,
        silver INT  NOT NULL DEFAULT 0,
        bronze INT  NOT NULL DEFAULT 0,
        PRIMARY KEY (run_id, team)
    );`,
	}
	for _, q := range queries {
		if _, err := s.DB.Exec(q); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
	}
	return nil
}

// InsertGroups stores every team with its group and position in it.
func (s *Store) InsertGroups(groups []tournament.Group) error {
	const q = `
    INSERT INTO teams (name, iso_code, ranking, group_name, position)
    VALUES ($1, $2, $3, $4, $5)
    ON CONFLICT (name) DO UPDATE
    SET iso_code = EXCLUDED.iso_code, ranking = EXCLUDED.ranking,
        group_name = EXCLUDED.group_name, position = EXCLUDED.position
    `
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("begin InsertGroups tx: %w", err)
	}
	defer tx.Rollback()

	for _, g := range groups {
		for i, t := range g.Teams {
			if t == nil {
				continue
			}
			if _, err := tx.Exec(q, t.Name, t.ISOCode, t.Ranking, g.Name, i); err != nil {
				return fmt.Errorf("inserting team %s (%s): %w", t.Name, g.Name, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit InsertGroups tx: %w", err)
	}
	return nil
}

// GetGroups rebuilds the groups ordered by group name and position.
func (s *Store) GetGroups() ([]tournament.Group, error) {
	const q = `
        SELECT name, iso_code, ranking, group_name
        FROM teams
        ORDER BY group_name, position
    `
	rows, err := s.DB.Query(q)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	var groups []tournament.Group
	for rows.Next() {
		t := &tournament.Team{}
		var group string
		if err := rows.Scan(&t.Name, &t.ISOCode, &t.Ranking, &group); err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		if len(groups) == 0 || groups[len(groups)-1].Name != group {
			groups = append(groups, tournament.Group{Name: group})
		}
		last := &groups[len(groups)-1]
		last.Teams = append(last.Teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating teams rows: %w", err)
	}
	return groups, nil
}

func (s *Store) InsertExhibitions(history tournament.History) error {
	const q = `
    INSERT INTO exhibitions (team_iso, opponent_iso, result, played_on)
    VALUES ($1, $2, $3, $4)
    `
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("begin InsertExhibitions tx: %w", err)
	}
	defer tx.Rollback()

	teams := make([]string, 0, len(history))
	for team := range history {
		teams = append(teams, team)
	}
	sort.Strings(teams)

	// An import replaces the history of every team it names.
	for _, team := range teams {
		if _, err := tx.Exec(`DELETE FROM exhibitions WHERE team_iso = $1`, team); err != nil {
			return fmt.Errorf("clearing exhibitions of %s: %w", team, err)
		}
		for _, m := range history[team] {
			if _, err := tx.Exec(q, team, m.Opponent, m.Result, m.Date); err != nil {
				return fmt.Errorf("inserting exhibition %s vs %s: %w", team, m.Opponent, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit InsertExhibitions tx: %w", err)
	}
	return nil
}

func (s *Store) GetExhibitions() (tournament.History, error) {
	const q = `
    SELECT team_iso, opponent_iso, result, played_on
    FROM exhibitions
    ORDER BY id
    `
	rows, err := s.DB.Query(q)
	if err != nil {
		return nil, fmt.Errorf("querying exhibitions: %w", err)
	}
	defer rows.Close()

	history := make(tournament.History)
	for rows.Next() {
		var team string
		var m tournament.ExhibitionMatch
		if err := rows.Scan(&team, &m.Opponent, &m.Result, &m.Date); err != nil {
			return nil, fmt.Errorf("scanning exhibition row: %w", err)
		}
		history[team] = append(history[team], m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating exhibition rows: %w", err)
	}
	return history, nil
}

// LoadTournament reads groups and exhibitions back as simulation input.
func (s *Store) LoadTournament() (tournament.Tournament, error) {
	groups, err := s.GetGroups()
	if err != nil {
		return tournament.Tournament{}, err
	}
	history, err := s.GetExhibitions()
	if err != nil {
		return tournament.Tournament{}, err
	}
	return tournament.Tournament{Groups: groups, Exhibitions: history}, nil
}

// SaveTally persists a batch run and its medal counts in one transaction.
func (s *Store) SaveTally(seed int64, tally *tournament.MedalTally) (Run, error) {
	run := Run{ID: uuid.New(), Trials: tally.Trials(), Completed: tally.Completed(), Seed: seed}

	tx, err := s.DB.Begin()
	if err != nil {
		return run, fmt.Errorf("begin SaveTally tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRow(
		`INSERT INTO simulation_runs (id, trials, completed, seed) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		run.ID, run.Trials, run.Completed, run.Seed,
	).Scan(&run.CreatedAt)
	if err != nil {
		return run, fmt.Errorf("saving run %s: %w", run.ID, err)
	}

	const q = `
      INSERT INTO medal_tallies (run_id, team, gold, silver, bronze)
      VALUES ($1, $2, $3, $4, $5)
    `
	for _, r := range tally.Sorted() {
		if _, err := tx.Exec(q, run.ID, r.Team, r.Gold, r.Silver, r.Bronze); err != nil {
			return run, fmt.Errorf("saving medals of %s: %w", r.Team, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return run, fmt.Errorf("commit SaveTally tx: %w", err)
	}
	return run, nil
}

// GetTally loads a persisted run. It returns sql.ErrNoRows, wrapped, for an unknown id.
func (s *Store) GetTally(id uuid.UUID) (Run, *tournament.MedalTally, error) {
	run := Run{ID: id}
	err := s.DB.QueryRow(
		`SELECT trials, completed, seed, created_at FROM simulation_runs WHERE id = $1`, id,
	).Scan(&run.Trials, &run.Completed, &run.Seed, &run.CreatedAt)
	if err != nil {
		return run, nil, fmt.Errorf("loading run %s: %w", id, err)
	}

	rows, err := s.DB.Query(
		`SELECT team, gold, silver, bronze FROM medal_tallies WHERE run_id = $1`, id,
	)
	if err != nil {
		return run, nil, fmt.Errorf("querying medals: %w", err)
	}
	defer rows.Close()

	tally := tournament.NewMedalTally()
	tally.SetTrials(run.Trials, run.Completed)
	for rows.Next() {
		var team string
		var m tournament.Medals
		if err := rows.Scan(&team, &m.Gold, &m.Silver, &m.Bronze); err != nil {
			return run, nil, fmt.Errorf("scanning medals row: %w", err)
		}
		tally.Set(team, m)
	}
	if err := rows.Err(); err != nil {
		return run, nil, fmt.Errorf("iterating medals rows: %w", err)
	}
	return run, tally, nil
}

// MedalOdds runs a batch of trials and persists the tally. Medal percentages
// of the run are tally.Odds().
func (s *Store) MedalOdds(t tournament.Tournament, opts tournament.TrialOptions) (Run, *tournament.MedalTally, error) {
	tally, err := tournament.RunTrials(t, opts)
	if err != nil {
		return Run{}, nil, err
	}
	run, err := s.SaveTally(opts.Seed, tally)
	if err != nil {
		return run, nil, err
	}
	return run, tally, nil
}

// DeleteAll empties every table, runs included.
func (s *Store) DeleteAll() error {
	for _, table := range []string{"medal_tallies", "simulation_runs", "exhibitions", "teams"} {
		if _, err := s.DB.Exec(`DELETE FROM ` + table + `;`); err != nil {
			return fmt.Errorf("deleting all %s: %w", table, err)
		}
	}
	return nil
}

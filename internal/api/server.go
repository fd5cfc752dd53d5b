// Package api exposes the simulator over HTTP.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/utakatalp/tournament-simulator/internal/store"
	"github.com/utakatalp/tournament-simulator/internal/tournament"
)

// MaxTrials bounds a single batch request.
const MaxTrials = 100000

const prefix = "/api/v1"

// TallyStore runs and persists batches.
type TallyStore interface {
	MedalOdds(t tournament.Tournament, opts tournament.TrialOptions) (store.Run, *tournament.MedalTally, error)
	GetTally(id uuid.UUID) (store.Run, *tournament.MedalTally, error)
}

type Server struct {
	tour    tournament.Tournament
	store   TallyStore
	log     logrus.FieldLogger
	workers int
	seed    func() int64
}

// NewServer serves tour. st may be nil, in which case batches are not persisted.
func NewServer(tour tournament.Tournament, st TallyStore, log logrus.FieldLogger, workers int) *Server {
	return &Server{
		tour:    tour,
		store:   st,
		log:     log,
		workers: workers,
		seed:    func() int64 { return time.Now().UnixNano() },
	}
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.logRequests)

	// Routes sit on the root router so a method mismatch answers 405.
	router.HandleFunc(prefix+"/health", s.health).Methods("GET")
	router.HandleFunc(prefix+"/groups", s.groups).Methods("GET")
	router.HandleFunc(prefix+"/form", s.form).Methods("GET")
	router.HandleFunc(prefix+"/tournaments", s.simulate).Methods("POST")
	router.HandleFunc(prefix+"/simulations", s.batch).Methods("POST")
	router.HandleFunc(prefix+"/simulations/{id}", s.getBatch).Methods("GET")
	return router
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Debug("request served")
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) groups(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tour.Groups)
}

func (s *Server) form(w http.ResponseWriter, r *http.Request) {
	form, err := tournament.CalculateForm(s.tour.Groups, s.tour.Exhibitions)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"form":   form,
		"errors": errorList(err),
	})
}

// SimulationResponse is the body of a single tournament run.
type SimulationResponse struct {
	Seed       int64                  `json:"seed"`
	Simulation *tournament.Simulation `json:"simulation"`
	Podium     *tournament.Podium     `json:"podium,omitempty"`
	Errors     []string               `json:"errors"`
}

func (s *Server) simulate(w http.ResponseWriter, r *http.Request) {
	seed, err := s.seedParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	e := tournament.NewEngine(
		tournament.NewRandomScorer(rand.New(rand.NewSource(seed))),
		tournament.WithLogger(s.log.WithField("seed", seed)),
	)
	sim, err := e.Run(s.tour)
	writeJSON(w, http.StatusOK, SimulationResponse{
		Seed:       seed,
		Simulation: sim,
		Podium:     sim.Podium(),
		Errors:     errorList(err),
	})
}

// BatchResponse is the body of a batch run.
type BatchResponse struct {
	Run       *store.Run              `json:"run,omitempty"`
	Trials    int                     `json:"trials"`
	Completed int                     `json:"completed"`
	Medals    []tournament.TeamMedals `json:"medals"`
	Odds      []tournament.Odds       `json:"odds"`
}

func newBatchResponse(run *store.Run, tally *tournament.MedalTally) BatchResponse {
	return BatchResponse{
		Run:       run,
		Trials:    tally.Trials(),
		Completed: tally.Completed(),
		Medals:    tally.Sorted(),
		Odds:      tally.Odds(),
	}
}

func (s *Server) batch(w http.ResponseWriter, r *http.Request) {
	trials, err := strconv.Atoi(r.URL.Query().Get("trials"))
	if err != nil || trials <= 0 || trials > MaxTrials {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("trials must be between 1 and %d", MaxTrials))
		return
	}
	seed, err := s.seedParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := tournament.TrialOptions{
		Trials:  trials,
		Seed:    seed,
		Workers: s.workers,
		Logger:  s.log.WithField("seed", seed),
	}
	if s.store == nil {
		tally, err := tournament.RunTrials(s.tour, opts)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, newBatchResponse(nil, tally))
		return
	}

	run, tally, err := s.store.MedalOdds(s.tour, opts)
	if err != nil {
		s.log.WithError(err).Error("batch failed")
		writeError(w, http.StatusInternalServerError, "batch failed")
		return
	}
	writeJSON(w, http.StatusCreated, newBatchResponse(&run, tally))
}

func (s *Server) getBatch(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotImplemented, "no database configured")
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}
	run, tally, err := s.store.GetTally(id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		writeError(w, http.StatusNotFound, "run not found")
	case err != nil:
		s.log.WithError(err).Error("loading tally failed")
		writeError(w, http.StatusInternalServerError, "loading tally failed")
	default:
		writeJSON(w, http.StatusOK, newBatchResponse(&run, tally))
	}
}

func (s *Server) seedParam(r *http.Request) (int64, error) {
	v := r.URL.Query().Get("seed")
	if v == "" {
		return s.seed(), nil
	}
	seed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seed %q", v)
	}
	return seed, nil
}

// errorList flattens joined errors into messages, looking through wrapping
// layers for a join.
func errorList(err error) []string {
	if err == nil {
		return []string{}
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		if joined, ok := e.(interface{ Unwrap() []error }); ok {
			out := []string{}
			for _, inner := range joined.Unwrap() {
				out = append(out, errorList(inner)...)
			}
			return out
		}
	}
	return []string{err.Error()}
}

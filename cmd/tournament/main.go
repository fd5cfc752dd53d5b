// Command tournament simulates the group stage and knockout of a tournament.
//
// Usage:
//
//	tournament [-config tournament.yaml] <simulate|batch|serve|migrate|import> [flags]
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/utakatalp/tournament-simulator/internal/api"
	"github.com/utakatalp/tournament-simulator/internal/config"
	"github.com/utakatalp/tournament-simulator/internal/loader"
	"github.com/utakatalp/tournament-simulator/internal/render"
	"github.com/utakatalp/tournament-simulator/internal/store"
	"github.com/utakatalp/tournament-simulator/internal/tournament"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [-config file] <simulate|batch|serve|migrate|import> [flags]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	cfgPath := flag.String("config", "tournament.yaml", "configuration file")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logrus.WithError(err).Fatal("loading config")
	}
	log, err := cfg.NewLogger()
	if err != nil {
		logrus.WithError(err).Fatal("configuring logger")
	}

	cmd, args := flag.Arg(0), flag.Args()[1:]
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	seed := fs.Int64("seed", cfg.Simulation.Seed, "random seed, 0 for time based")
	trials := fs.Int("trials", cfg.Simulation.Trials, "number of simulations (batch)")
	fromDB := fs.Bool("db", false, "read groups and exhibitions from the database")
	reset := fs.Bool("reset", false, "empty every table before importing (import)")
	fs.Parse(args)

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	switch cmd {
	case "simulate":
		tour := loadInput(cfg, log, *fromDB)
		runSimulate(tour, log, *seed)
	case "batch":
		tour := loadInput(cfg, log, *fromDB)
		runBatch(cfg, tour, log, *seed, *trials)
	case "serve":
		tour := loadInput(cfg, log, *fromDB)
		runServe(cfg, tour, log)
	case "migrate":
		st := openStore(cfg, log)
		defer st.Close()
		if err := st.Migrate(); err != nil {
			log.WithError(err).Fatal("migrating database")
		}
		log.Info("database migrated")
	case "import":
		tour := loadInput(cfg, log, false)
		st := openStore(cfg, log)
		defer st.Close()
		if *reset {
			if err := st.DeleteAll(); err != nil {
				log.WithError(err).Fatal("resetting database")
			}
			log.Info("database reset")
		}
		if err := st.InsertGroups(tour.Groups); err != nil {
			log.WithError(err).Fatal("importing groups")
		}
		if err := st.InsertExhibitions(tour.Exhibitions); err != nil {
			log.WithError(err).Fatal("importing exhibitions")
		}
		log.WithField("groups", len(tour.Groups)).Info("input imported")
	default:
		usage()
		os.Exit(2)
	}
}

// loadInput reads groups and exhibitions. Failing to load input stops the run.
func loadInput(cfg config.Config, log *logrus.Logger, fromDB bool) tournament.Tournament {
	if fromDB {
		st := openStore(cfg, log)
		defer st.Close()
		tour, err := st.LoadTournament()
		if err != nil {
			log.WithError(err).Fatal("loading input from database")
		}
		return tour
	}
	tour, err := loader.New(log).Load(cfg.Data.Groups, cfg.Data.Exhibitions)
	if err != nil {
		log.WithError(err).Fatal("loading input files")
	}
	return tour
}

func openStore(cfg config.Config, log *logrus.Logger) *store.Store {
	if cfg.Database.URL == "" {
		log.Fatal("no database configured: set database.url or DATABASE_URL")
	}
	st, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.WithError(err).Fatal("connecting to database")
	}
	return st
}

func runSimulate(tour tournament.Tournament, log *logrus.Logger, seed int64) {
	e := tournament.NewEngine(
		tournament.NewRandomScorer(rand.New(rand.NewSource(seed))),
		tournament.WithLogger(log),
	)
	sim, err := e.Run(tour)
	if err != nil {
		log.WithError(err).Warn("simulation finished with errors")
	}
	render.Simulation(os.Stdout, sim)
}

func runBatch(cfg config.Config, tour tournament.Tournament, log *logrus.Logger, seed int64, trials int) {
	start := time.Now()
	opts := tournament.TrialOptions{
		Trials:  trials,
		Seed:    seed,
		Workers: cfg.Simulation.Workers,
		Logger:  log.WithField("seed", seed),
	}

	var tally *tournament.MedalTally
	if cfg.Database.URL != "" {
		st := openStore(cfg, log)
		defer st.Close()
		run, t, err := st.MedalOdds(tour, opts)
		if err != nil {
			log.WithError(err).Fatal("running trials")
		}
		log.WithField("run", run.ID).Info("tally saved")
		tally = t
	} else {
		t, err := tournament.RunTrials(tour, opts)
		if err != nil {
			log.WithError(err).Fatal("running trials")
		}
		tally = t
	}
	log.WithFields(logrus.Fields{
		"trials":    tally.Trials(),
		"completed": tally.Completed(),
		"elapsed":   time.Since(start),
	}).Info("batch complete")

	render.Tally(os.Stdout, tally)
	if cfg.Results.Log != "" {
		if err := render.AppendTally(cfg.Results.Log, tally); err != nil {
			log.WithError(err).Error("writing results log")
		}
	}
}

func runServe(cfg config.Config, tour tournament.Tournament, log *logrus.Logger) {
	var st api.TallyStore
	if cfg.Database.URL != "" {
		s := openStore(cfg, log)
		defer s.Close()
		st = s
	}
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewServer(tour, st, log, cfg.Simulation.Workers).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.WithField("addr", cfg.Server.Addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

// Package loader reads tournament input documents from JSON or YAML files.
package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
	yaml "gopkg.in/yaml.v2"

	"github.com/utakatalp/tournament-simulator/internal/tournament"
)

type Format int

const (
	JSON Format = iota
	YAML
)

// FormatOf picks the document format from the file extension.
func FormatOf(path string) (Format, error) {
	switch ext := filepath.Ext(path); ext {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	default:
		return 0, fmt.Errorf("unsupported file format: %q", ext)
	}
}

// Loader decodes groups and exhibitions. Entries that are not lists are
// logged and skipped; only unreadable or unparsable documents fail.
type Loader struct {
	log logrus.FieldLogger
}

func New(log logrus.FieldLogger) *Loader {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Loader{log: log}
}

// Load reads both input files into a Tournament.
func (l *Loader) Load(groupsPath, exhibitionsPath string) (tournament.Tournament, error) {
	groups, err := l.LoadGroups(groupsPath)
	if err != nil {
		return tournament.Tournament{}, err
	}
	history, err := l.LoadExhibitions(exhibitionsPath)
	if err != nil {
		return tournament.Tournament{}, err
	}
	return tournament.Tournament{Groups: groups, Exhibitions: history}, nil
}

func (l *Loader) LoadGroups(path string) ([]tournament.Group, error) {
	data, format, err := read(path)
	if err != nil {
		return nil, err
	}
	return l.DecodeGroups(data, format)
}

func (l *Loader) LoadExhibitions(path string) (tournament.History, error) {
	data, format, err := read(path)
	if err != nil {
		return nil, err
	}
	return l.DecodeExhibitions(data, format)
}

// DecodeGroups parses an object keyed by group name. Groups come back
// sorted by name; teams keep document order.
func (l *Loader) DecodeGroups(data []byte, format Format) ([]tournament.Group, error) {
	doc := map[string]list[*tournament.Team]{}
	if err := decode(data, format, &doc); err != nil {
		return nil, fmt.Errorf("decoding groups: %w", err)
	}

	groups := make([]tournament.Group, 0, len(doc))
	for name, entry := range doc {
		if entry.err != nil {
			l.log.WithError(entry.err).WithField("group", name).Warn("malformed group entry skipped")
			continue
		}
		groups = append(groups, tournament.Group{Name: name, Teams: entry.items})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups, nil
}

// DecodeExhibitions parses an object keyed by team ISO code.
func (l *Loader) DecodeExhibitions(data []byte, format Format) (tournament.History, error) {
	doc := map[string]list[tournament.ExhibitionMatch]{}
	if err := decode(data, format, &doc); err != nil {
		return nil, fmt.Errorf("decoding exhibitions: %w", err)
	}

	history := make(tournament.History, len(doc))
	for team, entry := range doc {
		if entry.err != nil {
			l.log.WithError(entry.err).WithField("team", team).Warn("malformed exhibition entry skipped")
			continue
		}
		history[team] = entry.items
	}
	return history, nil
}

func read(path string) ([]byte, Format, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, 0, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, format, nil
}

func decode(data []byte, format Format, v interface{}) error {
	if format == YAML {
		return yaml.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

// list decodes a sequence, keeping the error instead of failing the whole document.
type list[T any] struct {
	items []T
	err   error
}

func (l *list[T]) UnmarshalJSON(b []byte) error {
	if err := json.Unmarshal(b, &l.items); err != nil {
		l.items, l.err = nil, err
	}
	return nil
}

func (l *list[T]) UnmarshalYAML(unmarshal func(interface{}) error) error {
	if err := unmarshal(&l.items); err != nil {
		l.items, l.err = nil, err
	}
	return nil
}

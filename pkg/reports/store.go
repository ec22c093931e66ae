// Package reports persists finished research reports as JSON files and keeps
// a de-duplicated history of researched topics.
package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/renameio/v2"
	"github.com/google/uuid"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/scribehq/scribe/pkg/research"
)

// ErrNotFound is returned when no report exists for an id.
var ErrNotFound = errors.New("reports: not found")

// ErrNotEnoughReports is returned by Diff when a topic has fewer than two
// saved reports.
var ErrNotEnoughReports = errors.New("reports: need at least two reports to diff")

const topicsFile = "topics.json"

// Store keeps one JSON file per report under dir, plus a topics.json history.
type Store struct {
	dir string
}

// NewStore opens a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("reports: create %s: %w", dir, err)
	}

	return &Store{dir: dir}, nil
}

// Save persists a report, assigning an id and timestamp if unset, and records
// its topic in the history. The stored report is returned.
func (s *Store) Save(r research.Report) (research.Report, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return research.Report{}, err
	}

	if err := renameio.WriteFile(s.Path(r.ID), data, 0o644); err != nil {
		return research.Report{}, fmt.Errorf("reports: write %s: %w", r.ID, err)
	}

	if err := s.recordTopic(r.Topic); err != nil {
		return research.Report{}, err
	}

	return r, nil
}

// Get loads one report by id.
func (s *Store) Get(id string) (research.Report, error) {
	data, err := os.ReadFile(s.Path(id))
	if errors.Is(err, os.ErrNotExist) {
		return research.Report{}, ErrNotFound
	}
	if err != nil {
		return research.Report{}, err
	}

	var r research.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return research.Report{}, fmt.Errorf("reports: decode %s: %w", id, err)
	}

	return r, nil
}

// List returns all reports, newest first.
func (s *Store) List() ([]research.Report, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var all []research.Report
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == topicsFile || !strings.HasSuffix(name, ".json") {
			continue
		}

		r, err := s.Get(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		all = append(all, r)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	return all, nil
}

// Topics returns the researched-topics history, oldest first.
func (s *Store) Topics() ([]string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, topicsFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var topics []string
	if err := json.Unmarshal(data, &topics); err != nil {
		return nil, fmt.Errorf("reports: decode topics: %w", err)
	}

	return topics, nil
}

// Diff returns a unified diff between the two most recent reports on a topic.
func (s *Store) Diff(topic string) (string, error) {
	all, err := s.List()
	if err != nil {
		return "", err
	}

	var matched []research.Report
	for _, r := range all {
		if strings.EqualFold(r.Topic, topic) {
			matched = append(matched, r)
			if len(matched) == 2 {
				break
			}
		}
	}
	if len(matched) < 2 {
		return "", ErrNotEnoughReports
	}

	// List is newest first, so matched[1] is the older report.
	older, newer := matched[1], matched[0]

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(older.Report),
		B:        difflib.SplitLines(newer.Report),
		FromFile: fmt.Sprintf("%s (%s)", older.ID, older.CreatedAt.Format(time.RFC3339)),
		ToFile:   fmt.Sprintf("%s (%s)", newer.ID, newer.CreatedAt.Format(time.RFC3339)),
		Context:  3,
	})
}

// Path returns the file path of a report id, whether or not it exists.
func (s *Store) Path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *Store) recordTopic(topic string) error {
	topics, err := s.Topics()
	if err != nil {
		return err
	}

	for _, t := range topics {
		if strings.EqualFold(t, topic) {
			return nil
		}
	}
	topics = append(topics, topic)

	data, err := json.MarshalIndent(topics, "", "  ")
	if err != nil {
		return err
	}

	if err := renameio.WriteFile(filepath.Join(s.dir, topicsFile), data, 0o644); err != nil {
		return fmt.Errorf("reports: write topics: %w", err)
	}

	return nil
}

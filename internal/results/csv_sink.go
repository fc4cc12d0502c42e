// File: internal/results/csv_sink.go

// Package results persists job campaign outcomes to a CSV file so runs can
// be audited and statuses carried across restarts.
package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/xkilldash9x/outreach-cli/internal/campaign"
)

var header = []string{"Company", "Title", "URL", "Location", "PostTime", "Status"}

// CSVSink stores job records in a CSV file keyed by posting URL. Every
// mutation rewrites the file through a temp-and-rename, so a crash never
// leaves a half-written result set behind.
type CSVSink struct {
	mu    sync.Mutex
	path  string
	rows  []campaign.JobRecord
	byURL map[string]int
	log   *zap.Logger
}

// OpenCSVSink opens or creates the sink at path, loading any rows a previous
// run left there.
func OpenCSVSink(path string, log *zap.Logger) (*CSVSink, error) {
	s := &CSVSink{
		path:  path,
		byURL: map[string]int{},
		log:   log.Named("results"),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// RecordDiscovered appends a job unless its URL was already recorded.
func (s *CSVSink) RecordDiscovered(rec campaign.JobRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byURL[rec.URL]; exists {
		return nil
	}
	if rec.Status == "" {
		rec.Status = campaign.StatusDiscovered
	}
	s.byURL[rec.URL] = len(s.rows)
	s.rows = append(s.rows, rec)
	return s.flush()
}

// UpdateStatus rewrites the status of the job with the given URL. Unknown
// URLs are ignored with a warning rather than failing the campaign.
func (s *CSVSink) UpdateStatus(url, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byURL[url]
	if !ok {
		s.log.Warn("Status update for unrecorded job", zap.String("url", url))
		return nil
	}
	if s.rows[idx].Status == status {
		return nil
	}
	s.rows[idx].Status = status
	return s.flush()
}

// Records returns a copy of all stored rows.
func (s *CSVSink) Records() []campaign.JobRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]campaign.JobRecord, len(s.rows))
	copy(out, s.rows)
	return out
}

func (s *CSVSink) load() error {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening results file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return fmt.Errorf("reading results file: %w", err)
	}
	for i, row := range records {
		if i == 0 || len(row) < len(header) {
			continue
		}
		rec := campaign.JobRecord{
			Company:  row[0],
			Title:    row[1],
			URL:      row[2],
			Location: row[3],
			PostTime: row[4],
			Status:   row[5],
		}
		if _, exists := s.byURL[rec.URL]; exists {
			continue
		}
		s.byURL[rec.URL] = len(s.rows)
		s.rows = append(s.rows, rec)
	}
	return nil
}

func (s *CSVSink) flush() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating results directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".results-*.csv")
	if err != nil {
		return fmt.Errorf("creating temp results file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("writing results header: %w", err)
	}
	for _, rec := range s.rows {
		row := []string{rec.Company, rec.Title, rec.URL, rec.Location, rec.PostTime, rec.Status}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("writing results row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flushing results: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp results file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing results file: %w", err)
	}
	return nil
}

var _ campaign.ResultSink = (*CSVSink)(nil)

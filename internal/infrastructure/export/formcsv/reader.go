package formcsv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"peerblind/internal/core/domain"
)

// Reader loads peer review submissions from a form export CSV. The export
// tools rename columns between semesters, so the proposal, title and
// reviewer columns are detected from the header instead of configured.
type Reader struct {
	path   string
	logger *slog.Logger
}

func NewReader(path string, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{path: path, logger: logger}
}

func (r *Reader) LoadSubmissions(_ context.Context) ([]domain.ReviewSubmission, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open review export: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("review export is empty: %w", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("read review export header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	idCol := detectColumn(header, []string{"proposal id", "proposal number"})
	titleCol := detectColumn(header, []string{"proposal title", "title of the proposal"})
	reviewerCol := detectColumn(header, []string{"your first name last name", "reviewer name", "your name"})
	r.logger.Debug("detected export columns",
		"proposal_id", columnName(header, idCol),
		"title", columnName(header, titleCol),
		"reviewer", columnName(header, reviewerCol))

	var out []domain.ReviewSubmission
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read review export row: %w", err)
		}

		sub := domain.ReviewSubmission{
			ProposalID:    cell(row, idCol),
			ProposalTitle: cell(row, titleCol),
			ReviewerName:  cell(row, reviewerCol),
			Fields:        make(map[string]string, len(header)),
		}
		for i, col := range header {
			if col == "" {
				continue
			}
			sub.Fields[col] = cell(row, i)
		}
		if sub.ProposalID == "" && sub.ProposalTitle == "" {
			continue
		}
		out = append(out, sub)
	}
	return out, nil
}

// detectColumn scans the header for the first column whose name contains
// one of the candidate phrases, most specific candidates first.
func detectColumn(header []string, candidates []string) int {
	for _, want := range candidates {
		for i, col := range header {
			if strings.Contains(strings.ToLower(col), want) {
				return i
			}
		}
	}
	return -1
}

func columnName(header []string, idx int) string {
	if idx < 0 || idx >= len(header) {
		return ""
	}
	return header[idx]
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

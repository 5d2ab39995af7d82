package csvmeta

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"peerblind/internal/core/domain"
)

// Columns names the metadata columns in the source table.
type Columns struct {
	ProposalID string
	AuthorName string
	Title      string
}

func DefaultColumns() Columns {
	return Columns{
		ProposalID: "Proposal ID",
		AuthorName: "Author First Name Last Name",
		Title:      "Proposal Title",
	}
}

// Reader loads proposal metadata from a CSV export. A missing file is not
// an error: the pipeline then runs without metadata matching.
type Reader struct {
	path    string
	columns Columns
}

func NewReader(path string, columns Columns) *Reader {
	return &Reader{path: path, columns: columns}
}

func (r *Reader) LoadMetadata(_ context.Context) ([]domain.MetadataRecord, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open metadata csv: %w", err)
	}
	defer f.Close()

	rows, header, err := readTable(f)
	if err != nil {
		return nil, fmt.Errorf("read metadata csv: %w", err)
	}

	idCol := columnIndex(header, r.columns.ProposalID)
	authorCol := columnIndex(header, r.columns.AuthorName)
	titleCol := columnIndex(header, r.columns.Title)

	out := make([]domain.MetadataRecord, 0, len(rows))
	for _, row := range rows {
		rec := domain.MetadataRecord{
			ProposalID:    cell(row, idCol),
			AuthorName:    cell(row, authorCol),
			ProposalTitle: cell(row, titleCol),
		}
		if rec.ProposalID == "" && rec.ProposalTitle == "" {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// readTable parses a CSV with a header row, tolerating a UTF-8 BOM and
// ragged rows.
func readTable(src io.Reader) (rows [][]string, header []string, err error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	header, err = reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("empty table")
		}
		return nil, nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}

func columnIndex(header []string, name string) int {
	for i, col := range header {
		if strings.TrimSpace(col) == name {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

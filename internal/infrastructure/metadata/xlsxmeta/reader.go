package xlsxmeta

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"peerblind/internal/core/domain"
)

// Columns names the metadata columns in the workbook.
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

// Reader loads proposal metadata from an XLSX workbook. The first sheet is
// used unless a sheet name is given. A missing file is not an error.
type Reader struct {
	path    string
	sheet   string
	columns Columns
}

func NewReader(path, sheet string, columns Columns) *Reader {
	return &Reader{path: path, sheet: sheet, columns: columns}
}

func (r *Reader) LoadMetadata(_ context.Context) ([]domain.MetadataRecord, error) {
	if _, err := os.Stat(r.path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	book, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("open metadata workbook: %w", err)
	}
	defer book.Close()

	sheet := r.sheet
	if sheet == "" {
		sheet = book.GetSheetName(0)
	}
	rows, err := book.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	idCol := columnIndex(header, r.columns.ProposalID)
	authorCol := columnIndex(header, r.columns.AuthorName)
	titleCol := columnIndex(header, r.columns.Title)

	out := make([]domain.MetadataRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
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

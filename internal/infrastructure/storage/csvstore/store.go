package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"peerblind/internal/core/domain"
)

const (
	mappingFile  = "proposal_mapping.csv"
	studentsFile = "students.csv"
	keyFile      = "Master_Key.csv"
)

var mappingHeader = []string{"Proposal_ID", "Student_ID", "Author_Name", "Proposal_Title", "Proposal_Filename"}

// Store keeps the roster and master key as CSV files under one directory.
// Every write replaces the whole file.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) MappingPath() string { return filepath.Join(s.dir, mappingFile) }
func (s *Store) StudentsPath() string {
	return filepath.Join(s.dir, studentsFile)
}
func (s *Store) KeyPath() string { return filepath.Join(s.dir, keyFile) }

func (s *Store) WriteMapping(_ context.Context, records []domain.ProposalRecord) error {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, mappingHeader)
	for _, rec := range records {
		rows = append(rows, []string{rec.ProposalID, rec.StudentID, rec.AuthorName, rec.ProposalTitle, rec.Filename})
	}
	return writeCSV(s.MappingPath(), rows)
}

func (s *Store) ReadMapping(_ context.Context) ([]domain.ProposalRecord, error) {
	header, rows, err := readCSV(s.MappingPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("proposal mapping %s: %w", s.MappingPath(), domain.ErrNotFound)
		}
		return nil, err
	}

	idx := indexColumns(header)
	out := make([]domain.ProposalRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.ProposalRecord{
			ProposalID:    cell(row, idx.lookup("Proposal_ID")),
			StudentID:     cell(row, idx.lookup("Student_ID")),
			AuthorName:    cell(row, idx.lookup("Author_Name")),
			ProposalTitle: cell(row, idx.lookup("Proposal_Title")),
			Filename:      cell(row, idx.lookup("Proposal_Filename")),
		})
	}
	return out, nil
}

// WriteStudents writes the student list sorted by ID. Duplicate IDs collapse
// to one row, keeping the first non-empty author name.
func (s *Store) WriteStudents(_ context.Context, records []domain.ProposalRecord) error {
	authors := make(map[string]string)
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if rec.StudentID == "" {
			continue
		}
		if _, seen := authors[rec.StudentID]; !seen {
			ids = append(ids, rec.StudentID)
			authors[rec.StudentID] = rec.AuthorName
		} else if authors[rec.StudentID] == "" {
			authors[rec.StudentID] = rec.AuthorName
		}
	}
	sort.Strings(ids)

	rows := make([][]string, 0, len(ids)+1)
	rows = append(rows, []string{"Student_ID", "Author_Name"})
	for _, id := range ids {
		rows = append(rows, []string{id, authors[id]})
	}
	return writeCSV(s.StudentsPath(), rows)
}

func (s *Store) ReadStudentIDs(_ context.Context) ([]string, error) {
	header, rows, err := readCSV(s.StudentsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("student list %s: %w", s.StudentsPath(), domain.ErrNotFound)
		}
		return nil, err
	}

	// Lists written by other tools may name the column differently or
	// carry no recognizable header at all. Default to the first column.
	col := 0
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), "Student_ID") {
			col = i
			break
		}
	}
	var ids []string
	for _, row := range rows {
		if id := cell(row, col); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// SetReviewer records who wrote a review in the mapping file, adding the
// per-source reviewer column the first time it is seen.
func (s *Store) SetReviewer(_ context.Context, studentID, sourceID, reviewerName string) error {
	header, rows, err := readCSV(s.MappingPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("proposal mapping %s: %w", s.MappingPath(), domain.ErrNotFound)
		}
		return err
	}

	column := sourceID + "_Reviewer"
	col := -1
	for i, name := range header {
		if name == column {
			col = i
			break
		}
	}
	if col < 0 {
		col = len(header)
		header = append(header, column)
	}

	studentCol := indexColumns(header).lookup("Student_ID")
	if studentCol < 0 {
		return fmt.Errorf("proposal mapping has no Student_ID column: %w", domain.ErrInvalidInput)
	}

	found := false
	for i, row := range rows {
		for len(row) < len(header) {
			row = append(row, "")
		}
		if cell(row, studentCol) == studentID {
			row[col] = reviewerName
			found = true
		}
		rows[i] = row
	}
	if !found {
		return fmt.Errorf("student %s not in proposal mapping: %w", studentID, domain.ErrNotFound)
	}

	out := make([][]string, 0, len(rows)+1)
	out = append(out, header)
	out = append(out, rows...)
	return writeCSV(s.MappingPath(), out)
}

func (s *Store) WriteKey(_ context.Context, entries []domain.KeyEntry) error {
	rows := make([][]string, 0, len(entries)+1)
	rows = append(rows, []string{"Student_ID", "Internal_Name", "True_Source", "Public_Review_Name"})
	for _, e := range entries {
		rows = append(rows, []string{e.StudentID, e.InternalName, string(e.TrueSource), e.PublicLabel})
	}
	return writeCSV(s.KeyPath(), rows)
}

func writeCSV(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func readCSV(path string) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err = reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("read %s header: %w", path, err)
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
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

type columnIndex map[string]int

func (c columnIndex) lookup(name string) int {
	if i, ok := c[name]; ok {
		return i
	}
	return -1
}

func indexColumns(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	return idx
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

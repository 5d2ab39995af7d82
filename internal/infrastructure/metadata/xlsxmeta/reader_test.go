package xlsxmeta

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metadata.xlsx")
	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := book.SetSheetRow(sheet, cellRef, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if err := book.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestLoadMetadataFromWorkbook(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Proposal ID", "Author First Name Last Name", "Proposal Title"},
		{"P01", "Alice Ngo", "Adaptive Caching for Edge Networks"},
		{"P02", "Bob Tran", "Swarm Robotics"},
	})

	reader := NewReader(path, "", DefaultColumns())
	records, err := reader.LoadMetadata(context.Background())
	if err != nil {
		t.Fatalf("LoadMetadata: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].ProposalID != "P01" || records[1].AuthorName != "Bob Tran" {
		t.Errorf("records = %+v", records)
	}
}

func TestLoadMetadataSkipsBlankWorkbookRows(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Proposal ID", "Author First Name Last Name", "Proposal Title"},
		{"", "Dana Lee", ""},
		{"P03", "", "Quantum Error Correction"},
	})

	reader := NewReader(path, "", DefaultColumns())
	records, err := reader.LoadMetadata(context.Background())
	if err != nil {
		t.Fatalf("LoadMetadata: %v", err)
	}
	if len(records) != 1 || records[0].ProposalID != "P03" {
		t.Fatalf("records = %+v", records)
	}
}

func TestLoadMetadataMissingWorkbookIsEmpty(t *testing.T) {
	reader := NewReader(filepath.Join(t.TempDir(), "absent.xlsx"), "", DefaultColumns())
	records, err := reader.LoadMetadata(context.Background())
	if err != nil {
		t.Fatalf("LoadMetadata: %v", err)
	}
	if records != nil {
		t.Fatalf("records = %+v, want nil", records)
	}
}

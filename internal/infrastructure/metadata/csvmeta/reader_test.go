package csvmeta

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadMetadataReadsRows(t *testing.T) {
	path := writeFile(t, "metadata.csv",
		"Proposal ID,Author First Name Last Name,Proposal Title\n"+
			"P01,Alice Ngo,Adaptive Caching for Edge Networks\n"+
			"P02,Bob Tran,Swarm Robotics\n")

	reader := NewReader(path, DefaultColumns())
	records, err := reader.LoadMetadata(context.Background())
	if err != nil {
		t.Fatalf("LoadMetadata: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].ProposalID != "P01" || records[0].AuthorName != "Alice Ngo" {
		t.Errorf("first record = %+v", records[0])
	}
	if records[1].ProposalTitle != "Swarm Robotics" {
		t.Errorf("second title = %q", records[1].ProposalTitle)
	}
}

func TestLoadMetadataStripsBOM(t *testing.T) {
	path := writeFile(t, "metadata.csv",
		"\ufeffProposal ID,Author First Name Last Name,Proposal Title\n"+
			"P07,Carol Wu,Verified Compilers\n")

	reader := NewReader(path, DefaultColumns())
	records, err := reader.LoadMetadata(context.Background())
	if err != nil {
		t.Fatalf("LoadMetadata: %v", err)
	}
	if len(records) != 1 || records[0].ProposalID != "P07" {
		t.Fatalf("records = %+v", records)
	}
}

func TestLoadMetadataSkipsBlankRows(t *testing.T) {
	path := writeFile(t, "metadata.csv",
		"Proposal ID,Author First Name Last Name,Proposal Title\n"+
			",Dana Lee,\n"+
			"P03,,Quantum Error Correction\n")

	reader := NewReader(path, DefaultColumns())
	records, err := reader.LoadMetadata(context.Background())
	if err != nil {
		t.Fatalf("LoadMetadata: %v", err)
	}
	if len(records) != 1 || records[0].ProposalID != "P03" {
		t.Fatalf("records = %+v", records)
	}
}

func TestLoadMetadataMissingFileIsEmpty(t *testing.T) {
	reader := NewReader(filepath.Join(t.TempDir(), "absent.csv"), DefaultColumns())
	records, err := reader.LoadMetadata(context.Background())
	if err != nil {
		t.Fatalf("LoadMetadata: %v", err)
	}
	if records != nil {
		t.Fatalf("records = %+v, want nil", records)
	}
}

func TestLoadMetadataCustomColumns(t *testing.T) {
	path := writeFile(t, "metadata.csv",
		"id,student,topic\n"+
			"P11,Evan Park,Distributed Tracing\n")

	reader := NewReader(path, Columns{ProposalID: "id", AuthorName: "student", Title: "topic"})
	records, err := reader.LoadMetadata(context.Background())
	if err != nil {
		t.Fatalf("LoadMetadata: %v", err)
	}
	if len(records) != 1 || records[0].AuthorName != "Evan Park" {
		t.Fatalf("records = %+v", records)
	}
}

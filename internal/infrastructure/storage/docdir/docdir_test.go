package docdir

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"peerblind/internal/core/domain"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatalf("touch %s: %v", name, err)
	}
}

func TestListProposalsSortedPDFsOnly(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b_proposal.pdf")
	touch(t, dir, "a_proposal.PDF")
	touch(t, dir, "notes.txt")
	if err := os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	docs, err := New(dir).ListProposals(context.Background())
	if err != nil {
		t.Fatalf("ListProposals: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("docs = %d, want 2", len(docs))
	}
	if docs[0].Filename != "a_proposal.PDF" || docs[1].Filename != "b_proposal.pdf" {
		t.Errorf("order = %q, %q", docs[0].Filename, docs[1].Filename)
	}
	if docs[0].Path != filepath.Join(dir, "a_proposal.PDF") {
		t.Errorf("path = %q", docs[0].Path)
	}
}

func TestListProposalsMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent")).ListProposals(context.Background())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "S01_H1.pdf")

	d := New(dir)
	ctx := context.Background()

	ok, err := d.Exists(ctx, "S01_H1.pdf")
	if err != nil || !ok {
		t.Fatalf("Exists present = %v, %v", ok, err)
	}
	ok, err = d.Exists(ctx, "S01_H2.pdf")
	if err != nil || ok {
		t.Fatalf("Exists absent = %v, %v", ok, err)
	}
}

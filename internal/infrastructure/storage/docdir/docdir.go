package docdir

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"peerblind/internal/core/domain"
)

// Dir is a directory of documents on local disk. It serves both as the
// proposal source (PDF listing) and as the artifact directory for
// completeness checks.
type Dir struct {
	path string
}

func New(path string) *Dir {
	return &Dir{path: path}
}

// ListProposals returns the PDF documents in the directory sorted by
// filename, so record IDs are stable across runs.
func (d *Dir) ListProposals(_ context.Context) ([]domain.ProposalDocument, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("proposal directory %s: %w", d.path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read proposal directory %s: %w", d.path, err)
	}

	var docs []domain.ProposalDocument
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".pdf") {
			continue
		}
		docs = append(docs, domain.ProposalDocument{
			Path:     filepath.Join(d.path, name),
			Filename: name,
		})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Filename < docs[j].Filename })
	return docs, nil
}

func (d *Dir) Exists(_ context.Context, name string) (bool, error) {
	info, err := os.Stat(filepath.Join(d.path, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", name, err)
	}
	return !info.IsDir(), nil
}

package match

import (
	"context"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"peerblind/internal/core/domain"
)

// wordOverlapThreshold is the minimum token-overlap ratio the fuzzy
// strategy accepts.
const wordOverlapThreshold = 0.5

var embeddedProposalID = regexp.MustCompile(`(?i)(P\d+)`)

// TitleExtractor detects a title line in a proposal document. An error
// means the extraction capability is unavailable for that file; the matcher
// treats it as a degraded condition, not a failure.
type TitleExtractor interface {
	ExtractTitle(ctx context.Context, path string) (string, error)
}

// Matcher resolves a proposal document to its authoritative metadata record
// through an ordered cascade of strategies. Each strategy runs only when
// every earlier one yielded nothing.
type Matcher struct {
	lookup *Lookup
	titles TitleExtractor
	logger *slog.Logger
}

// NewMatcher builds a matcher over the registered metadata. titles may be
// nil when no content extraction capability is available; the content-based
// strategies are then skipped.
func NewMatcher(lookup *Lookup, titles TitleExtractor, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{lookup: lookup, titles: titles, logger: logger}
}

// Match returns the best metadata record for doc, or false when no strategy
// produced one.
func (m *Matcher) Match(ctx context.Context, doc domain.ProposalDocument) (domain.MetadataRecord, bool) {
	if m.lookup.Len() == 0 {
		return domain.MetadataRecord{}, false
	}

	stem := strings.TrimSuffix(doc.Filename, filepath.Ext(doc.Filename))

	// Content extraction runs at most once per document; both content-based
	// strategies share the result.
	var (
		title     string
		extracted bool
	)
	contentTitle := func(sctx context.Context) string {
		if !extracted {
			extracted = true
			title = m.extractTitle(sctx, doc)
		}
		return title
	}

	strategies := []struct {
		name string
		fn   func(context.Context) (domain.MetadataRecord, bool)
	}{
		{"exact_stem", func(context.Context) (domain.MetadataRecord, bool) {
			return m.lookup.ByTitleKey(Key(stem))
		}},
		{"embedded_id", func(context.Context) (domain.MetadataRecord, bool) {
			return m.byEmbeddedID(stem)
		}},
		{"content_title", func(sctx context.Context) (domain.MetadataRecord, bool) {
			return m.byContentTitle(contentTitle(sctx))
		}},
		{"word_overlap", func(sctx context.Context) (domain.MetadataRecord, bool) {
			return m.byWordOverlap(contentTitle(sctx))
		}},
	}

	for _, s := range strategies {
		if rec, ok := s.fn(ctx); ok {
			m.logger.Debug("metadata matched",
				"file", doc.Filename,
				"strategy", s.name,
				"proposal_id", rec.ProposalID,
			)
			return rec, true
		}
	}
	return domain.MetadataRecord{}, false
}

func (m *Matcher) byEmbeddedID(stem string) (domain.MetadataRecord, bool) {
	found := embeddedProposalID.FindString(stem)
	if found == "" {
		return domain.MetadataRecord{}, false
	}
	return m.lookup.ByID(found)
}

func (m *Matcher) extractTitle(ctx context.Context, doc domain.ProposalDocument) string {
	if m.titles == nil {
		return ""
	}
	title, err := m.titles.ExtractTitle(ctx, doc.Path)
	if err != nil {
		m.logger.Warn("title extraction unavailable", "file", doc.Filename, "error", err)
		return ""
	}
	return title
}

func (m *Matcher) byContentTitle(title string) (domain.MetadataRecord, bool) {
	if title == "" {
		return domain.MetadataRecord{}, false
	}

	key := Key(title)
	if rec, ok := m.lookup.ByTitleKey(key); ok {
		return rec, true
	}
	if key == "" {
		return domain.MetadataRecord{}, false
	}

	// Partial match: one normalized title contained in the other.
	for _, stored := range m.lookup.TitleKeys() {
		if strings.Contains(key, stored) || strings.Contains(stored, key) {
			rec, ok := m.lookup.ByTitleKey(stored)
			return rec, ok
		}
	}
	return domain.MetadataRecord{}, false
}

// byWordOverlap tokenizes the extracted title and every candidate's
// original title and picks the candidate with the highest overlap ratio at
// or above the threshold. Ties keep the earliest-registered candidate.
func (m *Matcher) byWordOverlap(title string) (domain.MetadataRecord, bool) {
	if title == "" {
		return domain.MetadataRecord{}, false
	}
	docTokens := TokenSet(title)
	if len(docTokens) == 0 {
		return domain.MetadataRecord{}, false
	}

	var (
		best      domain.MetadataRecord
		bestRatio float64
		found     bool
	)
	for _, stored := range m.lookup.TitleKeys() {
		rec, ok := m.lookup.ByTitleKey(stored)
		if !ok {
			continue
		}
		ratio := OverlapRatio(docTokens, TokenSet(rec.ProposalTitle))
		if ratio >= wordOverlapThreshold && ratio > bestRatio {
			best = rec
			bestRatio = ratio
			found = true
		}
	}
	return best, found
}

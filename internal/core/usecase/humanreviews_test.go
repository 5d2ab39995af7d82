package usecase

import (
	"context"
	"strings"
	"testing"

	"peerblind/internal/core/domain"
)

type exportSourceFake struct {
	subs []domain.ReviewSubmission
	err  error
}

func (f *exportSourceFake) LoadSubmissions(context.Context) ([]domain.ReviewSubmission, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.subs, nil
}

type reviewWriterFake struct {
	written map[string]string
	err     error
}

func (f *reviewWriterFake) WriteReview(_ context.Context, baseName, content string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.written == nil {
		f.written = make(map[string]string)
	}
	f.written[baseName] = content
	return baseName + ".pdf", nil
}

func submission(proposalID, reviewer string, fields map[string]string) domain.ReviewSubmission {
	return domain.ReviewSubmission{ProposalID: proposalID, ReviewerName: reviewer, Fields: fields}
}

func mappingFor() *rosterStoreFake {
	return &rosterStoreFake{mapping: []domain.ProposalRecord{
		{StudentID: "S01", ProposalID: "P001", ProposalTitle: "Graph Compression", Filename: "a.pdf"},
		{StudentID: "S02", ProposalID: "P002", ProposalTitle: "Swarm Robotics", Filename: "b.pdf"},
	}}
}

func TestIngestWritesBothSlots(t *testing.T) {
	export := &exportSourceFake{subs: []domain.ReviewSubmission{
		submission("P001", "Reviewer A", map[string]string{"Major Strengths": "Clear goals."}),
		submission("P001", "Reviewer B", map[string]string{"Major Strengths": "Great writing."}),
	}}
	writer := &reviewWriterFake{}
	roster := mappingFor()
	uc := NewIngestHumanReviewsUseCase(export, roster, writer, nil)

	stats, err := uc.IngestHumanReviews(context.Background())
	if err != nil {
		t.Fatalf("IngestHumanReviews() error = %v", err)
	}
	if stats.Students != 1 || stats.Written != 2 || stats.Duplicated != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	if _, ok := writer.written["S01_H1"]; !ok {
		t.Fatalf("missing S01_H1")
	}
	if _, ok := writer.written["S01_H2"]; !ok {
		t.Fatalf("missing S01_H2")
	}
	if got := roster.reviewers["S01/H1"]; got != "Reviewer A" {
		t.Fatalf("H1 reviewer annotation = %q", got)
	}
}

func TestIngestDuplicatesSingleReview(t *testing.T) {
	export := &exportSourceFake{subs: []domain.ReviewSubmission{
		submission("P002", "", map[string]string{"Major Strengths": "Solid plan."}),
	}}
	writer := &reviewWriterFake{}
	uc := NewIngestHumanReviewsUseCase(export, mappingFor(), writer, nil)

	stats, err := uc.IngestHumanReviews(context.Background())
	if err != nil {
		t.Fatalf("IngestHumanReviews() error = %v", err)
	}
	if stats.Duplicated != 1 || stats.Written != 2 {
		t.Fatalf("stats = %+v", stats)
	}
	h2 := writer.written["S02_H2"]
	if !strings.Contains(h2, "duplicate of the first review") {
		t.Fatalf("H2 must carry the duplication note, got:\n%s", h2)
	}
	if strings.Contains(writer.written["S02_H1"], "duplicate of the first review") {
		t.Fatalf("H1 must not carry the duplication note")
	}
}

func TestIngestResolvesByTitleFallback(t *testing.T) {
	export := &exportSourceFake{subs: []domain.ReviewSubmission{
		{
			ProposalID:    "999",
			ProposalTitle: "SWARM-Robotics!!",
			ReviewerName:  "Reviewer C",
			Fields:        map[string]string{"Major Strengths": "ok"},
		},
		submission("P002", "Reviewer D", map[string]string{"Major Strengths": "fine"}),
	}}
	writer := &reviewWriterFake{}
	uc := NewIngestHumanReviewsUseCase(export, mappingFor(), writer, nil)

	stats, err := uc.IngestHumanReviews(context.Background())
	if err != nil {
		t.Fatalf("IngestHumanReviews() error = %v", err)
	}
	if stats.Skipped != 0 {
		t.Fatalf("title fallback should have resolved the row, stats = %+v", stats)
	}
	if _, ok := writer.written["S02_H1"]; !ok {
		t.Fatalf("expected S02_H1 from title-resolved submission")
	}
}

func TestIngestSkipsUnmappedRows(t *testing.T) {
	export := &exportSourceFake{subs: []domain.ReviewSubmission{
		submission("P404", "Reviewer E", map[string]string{"Major Strengths": "lost"}),
	}}
	writer := &reviewWriterFake{}
	uc := NewIngestHumanReviewsUseCase(export, mappingFor(), writer, nil)

	stats, err := uc.IngestHumanReviews(context.Background())
	if err != nil {
		t.Fatalf("unmapped rows must not be fatal, got %v", err)
	}
	if stats.Skipped != 1 || stats.Written != 0 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestFormatSubmissionSectionLayout(t *testing.T) {
	sub := domain.ReviewSubmission{Fields: map[string]string{
		"General Impression & Summary":          "Strong overall.",
		"Title & Abstract Quality":              "4",
		"Explanation (Title & Abstract Quality)": "Title is clear.",
		"Formatting & References":               "3",
	}}
	got := FormatSubmission(sub)

	if !strings.Contains(got, "General Impression & Summary:\nStrong overall.") {
		t.Fatalf("long-form answer must be on its own line:\n%s", got)
	}
	if !strings.Contains(got, "Title & Abstract Quality: 4\n  - Title is clear.") {
		t.Fatalf("rating must stay inline with bullet explanation:\n%s", got)
	}
	if strings.Contains(got, "Major Strengths") {
		t.Fatalf("empty sections must be dropped:\n%s", got)
	}
	if !strings.HasPrefix(got, "General Impression & Summary:") {
		t.Fatalf("section order must follow the form:\n%s", got)
	}
}

func TestReviewDocumentHeadingIsAnonymized(t *testing.T) {
	doc := ReviewDocument("S07", "body")
	if !strings.HasPrefix(doc, "Peer Review for S07\n") {
		t.Fatalf("heading must name the student: %q", doc)
	}
	if strings.Contains(doc, "H1") || strings.Contains(doc, "Review 1") {
		t.Fatalf("heading must not reveal the slot: %q", doc)
	}
}

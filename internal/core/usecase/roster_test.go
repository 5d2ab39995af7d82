package usecase

import (
	"context"
	"errors"
	"testing"

	"peerblind/internal/core/domain"
	"peerblind/internal/core/match"
)

type proposalSourceFake struct {
	docs []domain.ProposalDocument
	err  error
}

func (f *proposalSourceFake) ListProposals(context.Context) ([]domain.ProposalDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

type metadataSourceFake struct {
	rows []domain.MetadataRecord
	err  error
}

func (f *metadataSourceFake) LoadMetadata(context.Context) ([]domain.MetadataRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

type rosterStoreFake struct {
	mapping    []domain.ProposalRecord
	students   []domain.ProposalRecord
	studentIDs []string
	reviewers  map[string]string

	writeMappingErr error
	readMappingErr  error
	readIDsErr      error
}

func (f *rosterStoreFake) WriteMapping(_ context.Context, records []domain.ProposalRecord) error {
	if f.writeMappingErr != nil {
		return f.writeMappingErr
	}
	f.mapping = append([]domain.ProposalRecord(nil), records...)
	return nil
}

func (f *rosterStoreFake) ReadMapping(context.Context) ([]domain.ProposalRecord, error) {
	if f.readMappingErr != nil {
		return nil, f.readMappingErr
	}
	return f.mapping, nil
}

func (f *rosterStoreFake) WriteStudents(_ context.Context, records []domain.ProposalRecord) error {
	f.students = append([]domain.ProposalRecord(nil), records...)
	return nil
}

func (f *rosterStoreFake) ReadStudentIDs(context.Context) ([]string, error) {
	if f.readIDsErr != nil {
		return nil, f.readIDsErr
	}
	return f.studentIDs, nil
}

func (f *rosterStoreFake) SetReviewer(_ context.Context, studentID, sourceID, reviewerName string) error {
	if f.reviewers == nil {
		f.reviewers = make(map[string]string)
	}
	f.reviewers[studentID+"/"+sourceID] = reviewerName
	return nil
}

func docsFromNames(names ...string) []domain.ProposalDocument {
	out := make([]domain.ProposalDocument, 0, len(names))
	for _, name := range names {
		out = append(out, domain.ProposalDocument{Path: "/proposals/" + name, Filename: name})
	}
	return out
}

func TestBuildRecordsEmbeddedIDsNoMetadata(t *testing.T) {
	docs := docsFromNames("S01_thesis.pdf", "S02_other.pdf")
	records := BuildRecords(context.Background(), docs, nil, RosterConfig{})

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	want := []struct{ student, title string }{
		{"S01", "S01_thesis"},
		{"S02", "S02_other"},
	}
	for i, w := range want {
		if records[i].StudentID != w.student {
			t.Fatalf("record %d student = %s, want %s", i, records[i].StudentID, w.student)
		}
		if records[i].AuthorName != "" {
			t.Fatalf("record %d author = %q, want empty", i, records[i].AuthorName)
		}
		if records[i].ProposalTitle != w.title {
			t.Fatalf("record %d title = %s, want %s", i, records[i].ProposalTitle, w.title)
		}
	}
}

func TestBuildRecordsCollisionGetsFreshID(t *testing.T) {
	docs := docsFromNames("S01_proposal.pdf", "S01_proposal_copy.pdf")
	records := BuildRecords(context.Background(), docs, nil, RosterConfig{})

	if records[0].StudentID != "S01" {
		t.Fatalf("first record student = %s, want S01", records[0].StudentID)
	}
	if records[1].StudentID == "S01" {
		t.Fatalf("second record reused S01")
	}
	// The running index already advanced past the first document, so the
	// regenerated candidate is S03.
	if records[1].StudentID != "S03" {
		t.Fatalf("second record student = %s, want regenerated S03", records[1].StudentID)
	}
}

func TestBuildRecordsStudentIDsPairwiseDistinct(t *testing.T) {
	docs := docsFromNames(
		"S01_a.pdf", "s01_b.pdf", "S02_c.pdf", "plain_name.pdf", "s02_again.pdf", "another.pdf",
	)
	records := BuildRecords(context.Background(), docs, nil, RosterConfig{})

	if len(records) != len(docs) {
		t.Fatalf("output length %d, want input length %d", len(records), len(docs))
	}
	seen := make(map[string]struct{})
	for i, rec := range records {
		if rec.Filename != docs[i].Filename {
			t.Fatalf("processing order not preserved at %d", i)
		}
		if _, dup := seen[rec.StudentID]; dup {
			t.Fatalf("duplicate student ID %s", rec.StudentID)
		}
		seen[rec.StudentID] = struct{}{}
	}
}

func TestBuildRecordsMetadataOverride(t *testing.T) {
	lookup := match.NewLookup()
	lookup.Register(domain.MetadataRecord{
		ProposalID:    "P010",
		AuthorName:    "Dana Whitfield",
		ProposalTitle: "Graph Neural Networks for Traffic Prediction",
	})
	matcher := match.NewMatcher(lookup, nil, nil)

	docs := docsFromNames("graph_neural_networks_for_traffic_prediction.pdf")
	records := BuildRecords(context.Background(), docs, matcher, RosterConfig{})

	rec := records[0]
	if rec.ProposalID != "P010" {
		t.Fatalf("proposal ID = %s, want P010 from metadata", rec.ProposalID)
	}
	if rec.AuthorName != "Dana Whitfield" {
		t.Fatalf("author = %q, want from metadata", rec.AuthorName)
	}
	if rec.ProposalTitle != "Graph Neural Networks for Traffic Prediction" {
		t.Fatalf("title = %q, want metadata title", rec.ProposalTitle)
	}
}

func TestBuildRecordsEmptyProposalIDNotOverridden(t *testing.T) {
	lookup := match.NewLookup()
	lookup.Register(domain.MetadataRecord{
		AuthorName:    "Lee Calder",
		ProposalTitle: "Edge Caching Strategies",
	})
	matcher := match.NewMatcher(lookup, nil, nil)

	docs := docsFromNames("edge_caching_strategies.pdf")
	records := BuildRecords(context.Background(), docs, matcher, RosterConfig{})

	if records[0].ProposalID != "P001" {
		t.Fatalf("proposal ID = %s, want generated P001 when metadata has none", records[0].ProposalID)
	}
	if records[0].AuthorName != "Lee Calder" {
		t.Fatalf("author = %q, want metadata author", records[0].AuthorName)
	}
}

func TestBuildRosterWritesOutputs(t *testing.T) {
	store := &rosterStoreFake{}
	uc := NewBuildRosterUseCase(
		&proposalSourceFake{docs: docsFromNames("S01_a.pdf", "S02_b.pdf")},
		&metadataSourceFake{},
		nil,
		store,
		nil,
		RosterConfig{},
		nil,
	)

	records, err := uc.BuildRoster(context.Background())
	if err != nil {
		t.Fatalf("BuildRoster() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records", len(records))
	}
	if len(store.mapping) != 2 || len(store.students) != 2 {
		t.Fatalf("outputs not written: mapping=%d students=%d", len(store.mapping), len(store.students))
	}
}

func TestBuildRosterEmptyDirectoryFatal(t *testing.T) {
	uc := NewBuildRosterUseCase(
		&proposalSourceFake{},
		nil, nil, &rosterStoreFake{}, nil, RosterConfig{}, nil,
	)
	_, err := uc.BuildRoster(context.Background())
	if err == nil {
		t.Fatalf("expected error for empty proposal set")
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBuildRosterMetadataLoadErrorFatal(t *testing.T) {
	uc := NewBuildRosterUseCase(
		&proposalSourceFake{docs: docsFromNames("a.pdf")},
		&metadataSourceFake{err: errors.New("bad header")},
		nil, &rosterStoreFake{}, nil, RosterConfig{}, nil,
	)
	if _, err := uc.BuildRoster(context.Background()); err == nil {
		t.Fatalf("expected metadata load error to propagate")
	}
}

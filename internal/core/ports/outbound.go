package ports

import (
	"context"

	"peerblind/internal/core/domain"
)

// ProposalSource lists the proposal documents to process, in a stable
// order.
type ProposalSource interface {
	ListProposals(ctx context.Context) ([]domain.ProposalDocument, error)
}

// TextExtractor pulls text out of a proposal document. ExtractTitle scans
// the first pages for a plausible title line. Both report an error when the
// capability is unavailable for that file; callers treat this as a degraded
// condition.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
	ExtractTitle(ctx context.Context, path string) (string, error)
}

// MetadataSource loads the authoritative proposal metadata rows.
type MetadataSource interface {
	LoadMetadata(ctx context.Context) ([]domain.MetadataRecord, error)
}

// ReviewExportSource loads the review-form export rows (one submitted human
// review per row).
type ReviewExportSource interface {
	LoadSubmissions(ctx context.Context) ([]domain.ReviewSubmission, error)
}

// RosterStore reads and writes the roster outputs. Writes are whole-file
// rewrites.
type RosterStore interface {
	WriteMapping(ctx context.Context, records []domain.ProposalRecord) error
	ReadMapping(ctx context.Context) ([]domain.ProposalRecord, error)
	WriteStudents(ctx context.Context, records []domain.ProposalRecord) error
	ReadStudentIDs(ctx context.Context) ([]string, error)
	SetReviewer(ctx context.Context, studentID, sourceID, reviewerName string) error
}

// KeyStore writes the master key table.
type KeyStore interface {
	WriteKey(ctx context.Context, entries []domain.KeyEntry) error
}

// ArtifactDirectory answers existence questions about review artifacts.
type ArtifactDirectory interface {
	Exists(ctx context.Context, name string) (bool, error)
}

// ReviewWriter renders one review text into the artifact directory under
// the given base name. It returns the filename actually produced: the PDF
// when the rendering capability is available, otherwise the plain-text
// fallback.
type ReviewWriter interface {
	WriteReview(ctx context.Context, baseName, content string) (string, error)
}

// ReviewGenerator produces review text for a proposal. Slot selects which
// of the configured model deployments answers; the adapter owns prompt
// construction for each style.
type ReviewGenerator interface {
	GenerateReview(ctx context.Context, slot int, style domain.ReviewStyle, proposalText string) (string, error)
	ModelName(slot int) string
}

// RunArchive persists produced rosters and keys for later audit.
type RunArchive interface {
	ArchiveRoster(ctx context.Context, runID string, records []domain.ProposalRecord) error
	ArchiveKey(ctx context.Context, runID string, entries []domain.KeyEntry) error
}

// ReviewJobQueue distributes AI review generation jobs by student.
type ReviewJobQueue interface {
	PublishReviewRequested(ctx context.Context, studentID string) error
	SubscribeReviewRequested(ctx context.Context, handler func(context.Context, string) error) error
}

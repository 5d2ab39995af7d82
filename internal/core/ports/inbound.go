package ports

import (
	"context"

	"peerblind/internal/core/domain"
)

// RosterBuilder is the inbound contract for building the canonical roster
// from the proposal directory and optional metadata.
type RosterBuilder interface {
	BuildRoster(ctx context.Context) ([]domain.ProposalRecord, error)
}

// KeyIssuer validates artifact completeness and generates the master key.
type KeyIssuer interface {
	GenerateKey(ctx context.Context) ([]domain.KeyEntry, error)
}

// HumanReviewIngestor turns review-form submissions into anonymized review
// artifacts.
type HumanReviewIngestor interface {
	IngestHumanReviews(ctx context.Context) (domain.IngestStats, error)
}

// AIReviewRunner generates the AI review pair for proposals.
type AIReviewRunner interface {
	GenerateAll(ctx context.Context) error
	GenerateForStudent(ctx context.Context, studentID string) error
}

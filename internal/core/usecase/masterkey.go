package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"

	"peerblind/internal/core/domain"
	"peerblind/internal/core/ports"
)

// GenerateKeyUseCase validates the review artifact set and produces the
// master key: per student, an independent uniform permutation of the public
// labels paired with the registry's source order.
type GenerateKeyUseCase struct {
	roster    ports.RosterStore
	artifacts ports.ArtifactDirectory
	keys      ports.KeyStore
	archive   ports.RunArchive

	sources domain.SourceSet
	rng     *rand.Rand
	logger  *slog.Logger
}

// NewGenerateKeyUseCase wires key generation. rng is the injected
// randomness dependency; pass nil for an entropy-seeded generator, or a
// fixed-seed one in tests. archive may be nil.
func NewGenerateKeyUseCase(
	roster ports.RosterStore,
	artifacts ports.ArtifactDirectory,
	keys ports.KeyStore,
	archive ports.RunArchive,
	sources domain.SourceSet,
	rng *rand.Rand,
	logger *slog.Logger,
) *GenerateKeyUseCase {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerateKeyUseCase{
		roster:    roster,
		artifacts: artifacts,
		keys:      keys,
		archive:   archive,
		sources:   sources,
		rng:       rng,
		logger:    logger,
	}
}

func (uc *GenerateKeyUseCase) GenerateKey(ctx context.Context) ([]domain.KeyEntry, error) {
	if err := uc.sources.Validate(); err != nil {
		return nil, err
	}

	studentIDs, err := uc.roster.ReadStudentIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("read student roster: %w", err)
	}
	if len(studentIDs) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read student roster", fmt.Errorf("no student IDs found"))
	}

	missing, err := uc.validateArtifacts(ctx, studentIDs)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, &domain.MissingArtifactsError{Missing: missing}
	}
	uc.logger.Info("artifact validation passed",
		"students", len(studentIDs),
		"artifacts", len(studentIDs)*len(uc.sources.Sources),
	)

	entries := uc.randomize(studentIDs)

	if err := uc.keys.WriteKey(ctx, entries); err != nil {
		return nil, fmt.Errorf("write master key: %w", err)
	}

	if uc.archive != nil {
		runID := uuid.NewString()
		if err := uc.archive.ArchiveKey(ctx, runID, entries); err != nil {
			return nil, fmt.Errorf("archive master key: %w", err)
		}
		uc.logger.Info("master key archived", "run_id", runID, "entries", len(entries))
	}

	return entries, nil
}

// validateArtifacts returns the complete list of expected artifact names
// that are absent, so operators can fix every gap in one pass.
func (uc *GenerateKeyUseCase) validateArtifacts(ctx context.Context, studentIDs []string) ([]string, error) {
	var missing []string
	for _, studentID := range studentIDs {
		for _, src := range uc.sources.Sources {
			name := domain.ArtifactName(studentID, src.ID)
			ok, err := uc.artifacts.Exists(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("check artifact %s: %w", name, err)
			}
			if !ok {
				missing = append(missing, name)
			}
		}
	}
	return missing, nil
}

// randomize draws one label permutation per student. TrueSource is copied
// verbatim from the source set; only the public label is randomized.
func (uc *GenerateKeyUseCase) randomize(studentIDs []string) []domain.KeyEntry {
	entries := make([]domain.KeyEntry, 0, len(studentIDs)*len(uc.sources.Sources))
	for _, studentID := range studentIDs {
		perm := uc.rng.Perm(len(uc.sources.PublicLabels))
		for i, src := range uc.sources.Sources {
			entries = append(entries, domain.KeyEntry{
				StudentID:    studentID,
				InternalName: domain.ArtifactName(studentID, src.ID),
				TrueSource:   src.Provenance,
				PublicLabel:  uc.sources.PublicLabels[perm[i]],
			})
		}
	}
	return entries
}

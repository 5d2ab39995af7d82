package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"regexp"
	"strings"

	"peerblind/internal/core/domain"
	"peerblind/internal/core/ports"
)

// aiReviewsPerStudent is how many AI review slots each proposal gets.
const aiReviewsPerStudent = 2

// AIReviewConfig controls generation policy.
type AIReviewConfig struct {
	// BriefProbability is the chance a student's pair mixes one concise
	// review in with the detailed one.
	BriefProbability float64
}

// GenerateAIReviewsUseCase produces the AI half of each proposal's review
// set: two generated reviews from two model deployments, scrubbed and
// rendered under the internal naming convention.
type GenerateAIReviewsUseCase struct {
	proposals ports.ProposalSource
	roster    ports.RosterStore
	extractor ports.TextExtractor
	generator ports.ReviewGenerator
	writer    ports.ReviewWriter

	cfg    AIReviewConfig
	rng    *rand.Rand
	logger *slog.Logger
}

func NewGenerateAIReviewsUseCase(
	proposals ports.ProposalSource,
	roster ports.RosterStore,
	extractor ports.TextExtractor,
	generator ports.ReviewGenerator,
	writer ports.ReviewWriter,
	cfg AIReviewConfig,
	rng *rand.Rand,
	logger *slog.Logger,
) *GenerateAIReviewsUseCase {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerateAIReviewsUseCase{
		proposals: proposals,
		roster:    roster,
		extractor: extractor,
		generator: generator,
		writer:    writer,
		cfg:       cfg,
		rng:       rng,
		logger:    logger,
	}
}

// GenerateAll processes every proposal. Per-student failures do not stop
// the batch; they are collected and reported together at the end.
func (uc *GenerateAIReviewsUseCase) GenerateAll(ctx context.Context) error {
	assignments, err := uc.studentAssignments(ctx)
	if err != nil {
		return err
	}
	if len(assignments) == 0 {
		return domain.WrapError(domain.ErrInvalidInput, "scan proposals", fmt.Errorf("no proposal documents found"))
	}

	var failures []error
	for _, a := range assignments {
		if err := uc.generateFor(ctx, a.studentID, a.doc); err != nil {
			uc.logger.Error("review generation failed", "student_id", a.studentID, "error", err)
			failures = append(failures, fmt.Errorf("%s: %w", a.studentID, err))
		}
	}
	return errors.Join(failures...)
}

// GenerateForStudent processes a single student's proposal, typically from
// a queued job.
func (uc *GenerateAIReviewsUseCase) GenerateForStudent(ctx context.Context, studentID string) error {
	assignments, err := uc.studentAssignments(ctx)
	if err != nil {
		return err
	}
	for _, a := range assignments {
		if a.studentID == studentID {
			return uc.generateFor(ctx, a.studentID, a.doc)
		}
	}
	return domain.WrapError(domain.ErrNotFound, "resolve proposal",
		fmt.Errorf("no proposal document for student %s", studentID))
}

type assignment struct {
	studentID string
	doc       domain.ProposalDocument
}

// studentAssignments resolves each proposal document to its student:
// mapping file first, filename-embedded ID second, bare stem as the logged
// last resort.
func (uc *GenerateAIReviewsUseCase) studentAssignments(ctx context.Context) ([]assignment, error) {
	docs, err := uc.proposals.ListProposals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}

	byFilename := make(map[string]string)
	if uc.roster != nil {
		mapping, err := uc.roster.ReadMapping(ctx)
		if err != nil {
			uc.logger.Warn("proposal mapping unavailable, falling back to filenames", "error", err)
		} else {
			for _, rec := range mapping {
				if rec.Filename != "" && rec.StudentID != "" {
					byFilename[rec.Filename] = rec.StudentID
				}
			}
		}
	}

	out := make([]assignment, 0, len(docs))
	for _, doc := range docs {
		studentID := byFilename[doc.Filename]
		if studentID == "" {
			stem := strings.TrimSuffix(doc.Filename, filepath.Ext(doc.Filename))
			if m := stemStudentID.FindStringSubmatch(strings.ToUpper(stem)); m != nil {
				studentID = m[1]
			} else {
				studentID = stem
				uc.logger.Warn("filename has no student ID, using stem",
					"file", doc.Filename, "student_id", studentID)
			}
		}
		out = append(out, assignment{studentID: studentID, doc: doc})
	}
	return out, nil
}

func (uc *GenerateAIReviewsUseCase) generateFor(ctx context.Context, studentID string, doc domain.ProposalDocument) error {
	text, err := uc.extractor.ExtractText(ctx, doc.Path)
	if err != nil {
		return fmt.Errorf("extract proposal text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return domain.WrapError(domain.ErrInvalidInput, "extract proposal text",
			fmt.Errorf("empty text in %s", doc.Filename))
	}

	// Most students get two detailed reviews; with BriefProbability one of
	// the pair swaps to the concise register so lengths vary naturally.
	briefSlot := 0
	if uc.rng.Float64() < uc.cfg.BriefProbability {
		briefSlot = 1 + uc.rng.IntN(aiReviewsPerStudent)
	}

	for slot := 1; slot <= aiReviewsPerStudent; slot++ {
		style := domain.StyleDetailed
		if slot == briefSlot {
			style = domain.StyleConcise
		}

		review, err := uc.generator.GenerateReview(ctx, slot, style, text)
		if err != nil {
			return fmt.Errorf("generate review %d: %w", slot, err)
		}
		review = ScrubDashes(review)

		baseName := fmt.Sprintf("%s_AI%d", studentID, slot)
		written, err := uc.writer.WriteReview(ctx, baseName, ReviewDocument(studentID, review))
		if err != nil {
			return fmt.Errorf("write review %s: %w", baseName, err)
		}
		uc.logger.Info("ai review written", "artifact", written, "style", style)

		if uc.roster != nil {
			sourceID := fmt.Sprintf("AI%d", slot)
			if err := uc.roster.SetReviewer(ctx, studentID, sourceID, uc.generator.ModelName(slot)); err != nil {
				uc.logger.Warn("could not annotate reviewer", "student_id", studentID, "error", err)
			}
		}
	}
	return nil
}

var (
	bulletMarker = regexp.MustCompile(`(^|\n)(  - )`)
	anyDash      = regexp.MustCompile(`[-–—]`)
)

// ScrubDashes removes every dash character (hyphen-minus, en dash, em dash)
// from generated text while preserving the "  - " explanation bullets the
// review format requires. Models are instructed not to emit dashes; this is
// the enforcement step.
func ScrubDashes(text string) string {
	const placeholder = "\x00BULLET\x00"
	text = bulletMarker.ReplaceAllString(text, "${1}"+placeholder)
	text = anyDash.ReplaceAllString(text, " ")
	return strings.ReplaceAll(text, placeholder, "  - ")
}

package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"peerblind/internal/core/domain"
	"peerblind/internal/core/match"
	"peerblind/internal/core/ports"
)

// humanReviewsPerStudent is how many human review slots each proposal gets.
const humanReviewsPerStudent = 2

// reviewSection describes one block of the rendered review in output
// order. Column names follow the review-form export. Sections whose answer
// is long-form text put the answer on its own line; rating sections keep it
// inline and may carry an explanation bullet.
type reviewSection struct {
	name        string
	explanation string
	ownLine     bool
}

var reviewSections = []reviewSection{
	{name: "General Impression & Summary", ownLine: true},
	{name: "Major Strengths", ownLine: true},
	{name: "Key Areas for Improvement", ownLine: true},
	{name: "Title & Abstract Quality", explanation: "Explanation (Title & Abstract Quality)"},
	{name: "Introduction & Motivation", explanation: "Explanation (Introduction & Motivation)"},
	{name: "Background & Related Work", explanation: "Explanation (Background & Related Work)"},
	{name: "Thesis Question / Hypothesis & Contribution", explanation: "Explanation (Thesis Question / Hypothesis)"},
	{name: "Methodology, Design & Validation", explanation: "Explanation (Methodology, Design & Validation)"},
	{name: "Schedule & Feasibility", explanation: "Explanation (Schedule & Feasibility)"},
	{name: "Clarity & Style", explanation: "Explanation (Clarity & Style)"},
	{name: "Formatting & References", explanation: "Explanation (Formatting & References)"},
	{name: "Overall Recommendation for the Proposal's Outcome"},
	{name: "Rate the potential impact/significance of the proposed research"},
	{name: "Assess the novelty and originality of the following aspects: [Research Question/Hypothesis]"},
	{name: "Assess the novelty and originality of the following aspects: [Proposed Methodology]"},
	{name: "Assess the novelty and originality of the following aspects: [Potential Contribution]"},
	{name: "Additional Comments for the Author", ownLine: true},
}

const duplicateReviewNote = "[Note: Only one human review was submitted. " +
	"This is a duplicate of the first review so that the workflow retains the full review count.]"

// IngestHumanReviewsUseCase turns review-form submissions into anonymized
// H1/H2 artifacts. Rows whose proposal cannot be resolved to a student are
// skipped with a warning; a student with a single submission gets it
// duplicated into the second slot.
type IngestHumanReviewsUseCase struct {
	export ports.ReviewExportSource
	roster ports.RosterStore
	writer ports.ReviewWriter
	logger *slog.Logger
}

func NewIngestHumanReviewsUseCase(
	export ports.ReviewExportSource,
	roster ports.RosterStore,
	writer ports.ReviewWriter,
	logger *slog.Logger,
) *IngestHumanReviewsUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestHumanReviewsUseCase{export: export, roster: roster, writer: writer, logger: logger}
}

func (uc *IngestHumanReviewsUseCase) IngestHumanReviews(ctx context.Context) (domain.IngestStats, error) {
	var stats domain.IngestStats

	submissions, err := uc.export.LoadSubmissions(ctx)
	if err != nil {
		return stats, fmt.Errorf("load review export: %w", err)
	}

	mapping, err := uc.roster.ReadMapping(ctx)
	if err != nil {
		return stats, fmt.Errorf("read proposal mapping: %w", err)
	}

	byProposalID := make(map[string]string, len(mapping))
	byTitleKey := make(map[string]string, len(mapping))
	for _, rec := range mapping {
		if rec.ProposalID != "" {
			if _, ok := byProposalID[rec.ProposalID]; !ok {
				byProposalID[rec.ProposalID] = rec.StudentID
			}
		}
		if key := match.Key(rec.ProposalTitle); key != "" {
			if _, ok := byTitleKey[key]; !ok {
				byTitleKey[key] = rec.StudentID
			}
		}
	}

	grouped := make(map[string][]domain.ReviewSubmission)
	var studentOrder []string
	for _, sub := range submissions {
		studentID := byProposalID[sub.ProposalID]
		if studentID == "" {
			studentID = byTitleKey[match.Key(sub.ProposalTitle)]
		}
		if studentID == "" {
			uc.logger.Warn("submission not in mapping, skipping",
				"proposal_id", sub.ProposalID, "title", sub.ProposalTitle)
			stats.Skipped++
			continue
		}
		if _, ok := grouped[studentID]; !ok {
			studentOrder = append(studentOrder, studentID)
		}
		grouped[studentID] = append(grouped[studentID], sub)
	}

	for _, studentID := range studentOrder {
		reviews := grouped[studentID]
		duplicated := false
		if len(reviews) < humanReviewsPerStudent {
			uc.logger.Warn("only one human review submitted, duplicating", "student_id", studentID)
			dup := reviews[0]
			dup.ReviewerName = fallbackReviewerName(dup.ReviewerName, 1) + " (duplicate)"
			reviews = append(reviews, dup)
			duplicated = true
			stats.Duplicated++
		}

		for i, review := range reviews[:humanReviewsPerStudent] {
			slot := i + 1
			content := FormatSubmission(review)
			if i > 0 && duplicated {
				content += "\n\n" + duplicateReviewNote
			}

			baseName := fmt.Sprintf("%s_H%d", studentID, slot)
			written, err := uc.writer.WriteReview(ctx, baseName, ReviewDocument(studentID, content))
			if err != nil {
				return stats, fmt.Errorf("write review %s: %w", baseName, err)
			}
			stats.Written++
			uc.logger.Info("human review written", "artifact", written)

			reviewer := fallbackReviewerName(review.ReviewerName, slot)
			if err := uc.roster.SetReviewer(ctx, studentID, fmt.Sprintf("H%d", slot), reviewer); err != nil {
				uc.logger.Warn("could not annotate reviewer", "student_id", studentID, "error", err)
			}
		}
		stats.Students++
	}

	return stats, nil
}

func fallbackReviewerName(name string, slot int) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return fmt.Sprintf("Peer Reviewer %d", slot)
}

// FormatSubmission renders the fixed section sequence from a submission's
// raw fields. Empty answers drop their section entirely.
func FormatSubmission(sub domain.ReviewSubmission) string {
	parts := make([]string, 0, len(reviewSections))
	for _, section := range reviewSections {
		value := strings.TrimSpace(sub.Fields[section.name])
		if value == "" {
			continue
		}

		var b strings.Builder
		if section.ownLine {
			b.WriteString(section.name + ":\n" + value)
		} else {
			b.WriteString(section.name + ": " + value)
		}
		if section.explanation != "" {
			if explanation := strings.TrimSpace(sub.Fields[section.explanation]); explanation != "" {
				b.WriteString("\n  - " + explanation)
			}
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "\n\n")
}

// ReviewDocument wraps review content with the anonymized heading. The
// heading names only the student, never the review slot, so students cannot
// group artifacts by origin.
func ReviewDocument(studentID, content string) string {
	return fmt.Sprintf("Peer Review for %s\n%s\n\n%s", studentID, strings.Repeat("=", 60), content)
}

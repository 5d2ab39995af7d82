package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"peerblind/internal/core/domain"
	"peerblind/internal/core/match"
	"peerblind/internal/core/ports"
)

var (
	stemStudentID  = regexp.MustCompile(`^(S\d+)`)
	stemProposalID = regexp.MustCompile(`^(P\d+)`)
)

// RosterConfig controls identifier generation for the roster builder.
type RosterConfig struct {
	StudentPrefix  string
	ProposalPrefix string
	StartIndex     int
}

func (c RosterConfig) normalize() RosterConfig {
	out := c
	if out.StudentPrefix == "" {
		out.StudentPrefix = "S"
	}
	if out.ProposalPrefix == "" {
		out.ProposalPrefix = "P"
	}
	if out.StartIndex <= 0 {
		out.StartIndex = 1
	}
	return out
}

// BuildRosterUseCase assigns stable student and proposal identifiers to
// every proposal document and writes the canonical roster outputs.
type BuildRosterUseCase struct {
	proposals ports.ProposalSource
	metadata  ports.MetadataSource
	extractor ports.TextExtractor
	roster    ports.RosterStore
	archive   ports.RunArchive

	cfg    RosterConfig
	logger *slog.Logger
}

// NewBuildRosterUseCase wires the roster pipeline. metadata, extractor and
// archive may be nil; the pipeline then runs without metadata matching,
// without content extraction, or without archival respectively.
func NewBuildRosterUseCase(
	proposals ports.ProposalSource,
	metadata ports.MetadataSource,
	extractor ports.TextExtractor,
	roster ports.RosterStore,
	archive ports.RunArchive,
	cfg RosterConfig,
	logger *slog.Logger,
) *BuildRosterUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &BuildRosterUseCase{
		proposals: proposals,
		metadata:  metadata,
		extractor: extractor,
		roster:    roster,
		archive:   archive,
		cfg:       cfg.normalize(),
		logger:    logger,
	}
}

func (uc *BuildRosterUseCase) BuildRoster(ctx context.Context) ([]domain.ProposalRecord, error) {
	docs, err := uc.proposals.ListProposals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	if len(docs) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "list proposals", fmt.Errorf("no proposal documents found"))
	}

	matcher, err := uc.buildMatcher(ctx)
	if err != nil {
		return nil, err
	}

	records := BuildRecords(ctx, docs, matcher, uc.cfg)

	if err := uc.roster.WriteMapping(ctx, records); err != nil {
		return nil, fmt.Errorf("write mapping: %w", err)
	}
	if err := uc.roster.WriteStudents(ctx, records); err != nil {
		return nil, fmt.Errorf("write students: %w", err)
	}

	if uc.archive != nil {
		runID := uuid.NewString()
		if err := uc.archive.ArchiveRoster(ctx, runID, records); err != nil {
			return nil, fmt.Errorf("archive roster: %w", err)
		}
		uc.logger.Info("roster archived", "run_id", runID, "records", len(records))
	}

	return records, nil
}

func (uc *BuildRosterUseCase) buildMatcher(ctx context.Context) (*match.Matcher, error) {
	lookup := match.NewLookup()
	if uc.metadata != nil {
		rows, err := uc.metadata.LoadMetadata(ctx)
		if err != nil {
			return nil, fmt.Errorf("load metadata: %w", err)
		}
		for _, row := range rows {
			lookup.Register(row)
		}
	}

	var titles match.TitleExtractor
	if uc.extractor != nil {
		titles = uc.extractor
	}
	return match.NewMatcher(lookup, titles, uc.logger), nil
}

// BuildRecords resolves one ProposalRecord per document, in input order.
// Identifiers embedded at the start of the filename stem win over generated
// candidates; any collision with an already assigned student ID is
// recovered by bumping the running index until a fresh candidate is unique.
func BuildRecords(ctx context.Context, docs []domain.ProposalDocument, matcher *match.Matcher, cfg RosterConfig) []domain.ProposalRecord {
	cfg = cfg.normalize()
	records := make([]domain.ProposalRecord, 0, len(docs))
	seen := make(map[string]struct{}, len(docs))
	index := cfg.StartIndex

	for _, doc := range docs {
		stem := strings.TrimSuffix(doc.Filename, filepath.Ext(doc.Filename))

		studentID := embeddedID(stemStudentID, stem, fmt.Sprintf("%s%02d", cfg.StudentPrefix, index))
		for {
			if _, taken := seen[studentID]; !taken {
				break
			}
			index++
			studentID = fmt.Sprintf("%s%02d", cfg.StudentPrefix, index)
		}

		proposalID := embeddedID(stemProposalID, stem, fmt.Sprintf("%s%03d", cfg.ProposalPrefix, index))

		authorName := ""
		proposalTitle := stem
		if matcher != nil {
			if meta, ok := matcher.Match(ctx, doc); ok {
				authorName = meta.AuthorName
				if meta.ProposalTitle != "" {
					proposalTitle = meta.ProposalTitle
				}
				if meta.ProposalID != "" {
					proposalID = meta.ProposalID
				}
			}
		}

		records = append(records, domain.ProposalRecord{
			StudentID:     studentID,
			ProposalID:    proposalID,
			Filename:      doc.Filename,
			AuthorName:    authorName,
			ProposalTitle: proposalTitle,
		})
		seen[studentID] = struct{}{}
		index++
	}

	return records
}

func embeddedID(pattern *regexp.Regexp, stem, fallback string) string {
	if m := pattern.FindStringSubmatch(strings.ToUpper(stem)); m != nil {
		return m[1]
	}
	return fallback
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"peerblind/internal/core/usecase"
	"peerblind/internal/infrastructure/extractor/pdftext"
)

func newRosterCommand(ctx *commandContext) *cobra.Command {
	var noMetadata bool

	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Assign student and proposal IDs and write the roster outputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()

			proposals, err := ctx.proposalDir()
			if err != nil {
				return err
			}
			store, err := ctx.rosterStore()
			if err != nil {
				return err
			}
			metadata, err := ctx.metadataSource()
			if err != nil {
				return err
			}
			if noMetadata {
				metadata = nil
			}
			archive, closeArchive, err := ctx.runArchive(cmd.Context())
			if err != nil {
				return err
			}
			defer closeArchive()

			uc := usecase.NewBuildRosterUseCase(
				proposals,
				metadata,
				&pdftext.Extractor{},
				store,
				archive,
				usecase.RosterConfig{
					StudentPrefix:  cfg.StudentPrefix,
					ProposalPrefix: cfg.ProposalPrefix,
					StartIndex:     cfg.StartIndex,
				},
				logger,
			)

			records, err := uc.BuildRoster(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{rec.StudentID, rec.ProposalID, rec.AuthorName, rec.ProposalTitle, rec.Filename})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Student", "Proposal", "Author", "Title", "File"}, rows))
			fmt.Fprintf(cmd.OutOrStdout(), "%d proposals mapped; outputs written to %s\n", len(records), cfg.OutputDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noMetadata, "no-metadata", false, "Skip metadata matching and derive everything from filenames")
	return cmd
}

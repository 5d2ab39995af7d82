package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"peerblind/internal/core/domain"
	"peerblind/internal/core/usecase"
)

func newKeyCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Validate the review set and generate the master key",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := ctx.ensureLogger()

			store, err := ctx.rosterStore()
			if err != nil {
				return err
			}
			reviews, err := ctx.reviewsDir()
			if err != nil {
				return err
			}
			archive, closeArchive, err := ctx.runArchive(cmd.Context())
			if err != nil {
				return err
			}
			defer closeArchive()

			uc := usecase.NewGenerateKeyUseCase(
				store,
				reviews,
				store,
				archive,
				domain.DefaultSourceSet(),
				nil,
				logger,
			)

			entries, err := uc.GenerateKey(cmd.Context())
			if err != nil {
				var missing *domain.MissingArtifactsError
				if errors.As(err, &missing) {
					fmt.Fprintf(cmd.ErrOrStderr(), "review set incomplete, %d artifacts missing:\n", len(missing.Missing))
					for _, name := range missing.Missing {
						fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", name)
					}
				}
				return err
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.StudentID, e.InternalName, string(e.TrueSource), e.PublicLabel})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Student", "Internal", "Source", "Public Label"}, rows))
			fmt.Fprintf(cmd.OutOrStdout(), "master key written for %d entries\n", len(entries))
			return nil
		},
	}
	return cmd
}

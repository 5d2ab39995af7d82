package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"peerblind/internal/bootstrap"
	"peerblind/internal/core/usecase"
	"peerblind/internal/infrastructure/export/formcsv"
	natsqueue "peerblind/internal/infrastructure/queue/nats"
	"peerblind/internal/infrastructure/resilience"
)

func newHumanReviewsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "human-reviews",
		Short: "Ingest the review form export and write anonymized human reviews",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()

			store, err := ctx.rosterStore()
			if err != nil {
				return err
			}
			writer, err := ctx.reviewWriter()
			if err != nil {
				return err
			}

			uc := usecase.NewIngestHumanReviewsUseCase(
				formcsv.NewReader(cfg.ReviewExportCSV, logger),
				store,
				writer,
				logger,
			)

			stats, err := uc.IngestHumanReviews(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"human reviews written for %d students (%d files, %d duplicated, %d submissions skipped)\n",
				stats.Students, stats.Written, stats.Duplicated, stats.Skipped)
			return nil
		},
	}
	return cmd
}

func newAIReviewsCommand(ctx *commandContext) *cobra.Command {
	var queueMode bool
	var studentID string

	cmd := &cobra.Command{
		Use:   "ai-reviews",
		Short: "Generate AI reviews for every proposal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()

			store, err := ctx.rosterStore()
			if err != nil {
				return err
			}

			if queueMode {
				studentIDs, err := store.ReadStudentIDs(cmd.Context())
				if err != nil {
					return err
				}
				queue, err := natsqueue.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, natsqueue.Options{
					ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig(), logger),
					Logger:             logger,
				})
				if err != nil {
					return err
				}
				defer queue.Close()

				for _, id := range studentIDs {
					if err := queue.PublishReviewRequested(cmd.Context(), id); err != nil {
						return fmt.Errorf("enqueue student %s: %w", id, err)
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d students enqueued on %s\n", len(studentIDs), cfg.NATSSubject)
				return nil
			}

			uc, err := bootstrap.BuildAIReviews(cfg, logger)
			if err != nil {
				return err
			}
			if studentID != "" {
				if err := uc.GenerateForStudent(cmd.Context(), studentID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "AI reviews written for %s\n", studentID)
				return nil
			}
			if err := uc.GenerateAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "AI reviews written for all students")
			return nil
		},
	}

	cmd.Flags().BoolVar(&queueMode, "queue", false, "Publish generation jobs to NATS instead of running locally")
	cmd.Flags().StringVar(&studentID, "student", "", "Generate reviews for a single student ID")
	return cmd
}

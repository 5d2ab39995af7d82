package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "peerblind",
		Short:         "Double-blind peer review assignment and anonymization",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newRosterCommand(ctx))
	rootCmd.AddCommand(newHumanReviewsCommand(ctx))
	rootCmd.AddCommand(newAIReviewsCommand(ctx))
	rootCmd.AddCommand(newKeyCommand(ctx))

	return rootCmd
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emilythestrangee/theory-forum/backend/internal/database"
	"github.com/emilythestrangee/theory-forum/backend/internal/voting"
)

func reconcileCommand() *cobra.Command {
	var (
		userID int
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Recount scores and reputation from the vote ledger",
		Long: "Recounts every post and comment score of the selected authors from their live votes,\n" +
			"then resets each author's reputation to the sum. Safe to run while serving.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (userID > 0) {
				return errors.New("specify exactly one of --user or --all")
			}

			_, logger, db, err := commonRun(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			store := database.NewVoteStore(db.GetDB())
			engine := voting.NewEngine(store, voting.WithLogger(logger))

			ids := []int{userID}
			if all {
				if ids, err = store.AuthorIDs(cmd.Context()); err != nil {
					return err
				}
			}

			drifted := 0
			for _, id := range ids {
				report, err := engine.Reconcile(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("reconcile user %d: %w", id, err)
				}
				if !report.Clean() {
					drifted++
				}
			}
			logger.Info("reconcile finished", "authors", len(ids), "drifted", drifted)
			return nil
		},
	}

	cmd.Flags().IntVar(&userID, "user", 0, "reconcile a single author by id")
	cmd.Flags().BoolVar(&all, "all", false, "reconcile every author")
	return cmd
}

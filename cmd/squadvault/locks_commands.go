package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"squadvault/internal/artifact"
	"squadvault/internal/config"
)

func newLocksCommand(ctx *commandContext) *cobra.Command {
	locksCmd := &cobra.Command{
		Use:   "locks",
		Short: "Manage roster lock events",
	}

	locksCmd.AddCommand(newLocksAddCommand(ctx))
	locksCmd.AddCommand(newLocksListCommand(ctx))

	return locksCmd
}

func newLocksAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <league> <season> <week> <locked-at>",
		Short: "Record (or correct) a week's roster lock time",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			leagueID := args[0]
			season, err := parseIntArg("season", args[1])
			if err != nil {
				return err
			}
			week, err := parseIntArg("week", args[2])
			if err != nil {
				return err
			}
			lockedAt, err := time.Parse(time.RFC3339, args[3])
			if err != nil {
				return fmt.Errorf("invalid locked-at %q (want RFC 3339): %w", args[3], err)
			}

			return ctx.withStore(func(cfg *config.Config, store *artifact.Store) error {
				event := artifact.LockEvent{
					LeagueID:  leagueID,
					Season:    season,
					WeekIndex: week,
					LockedAt:  lockedAt,
				}
				if err := store.RecordLock(cmd.Context(), event); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded lock for %s %d week %d at %s\n",
					leagueID, season, week, lockedAt.UTC().Format(time.RFC3339))
				return nil
			})
		},
	}
}

func newLocksListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <league> <season>",
		Short: "List recorded lock events for a league season",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			leagueID := args[0]
			season, err := parseIntArg("season", args[1])
			if err != nil {
				return err
			}

			return ctx.withStore(func(cfg *config.Config, store *artifact.Store) error {
				events, err := store.ListLocks(cmd.Context(), leagueID, season)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(events) == 0 {
					fmt.Fprintf(out, "No lock events for %s %d\n", leagueID, season)
					return nil
				}
				for _, event := range events {
					fmt.Fprintf(out, "week %d: %s\n",
						event.WeekIndex, event.LockedAt.UTC().Format(time.RFC3339))
				}
				return nil
			})
		},
	}
}

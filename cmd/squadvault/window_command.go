package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"squadvault/internal/artifact"
	"squadvault/internal/config"
	"squadvault/internal/window"
)

func newWindowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "window <league> <season> <week>",
		Short: "Resolve the lock-to-lock window for a week",
		Args:  cobra.ExactArgs(3),
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

			return ctx.withStore(func(cfg *config.Config, store *artifact.Store) error {
				resolver := window.NewResolver(store)
				w, err := resolver.Resolve(cmd.Context(), leagueID, season, week)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Mode: %s\n", w.Mode)
				if w.Usable() {
					fmt.Fprintf(out, "Start: %s\n", w.Start.Format(time.RFC3339))
					fmt.Fprintf(out, "End:   %s\n", w.End.Format(time.RFC3339))
				} else {
					fmt.Fprintf(out, "Reason: %s\n", w.Reason)
				}
				fmt.Fprintf(out, "Window id: %s\n", w.ID())
				return nil
			})
		},
	}
}

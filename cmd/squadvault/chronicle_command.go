package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"squadvault/internal/artifact"
	"squadvault/internal/chronicle"
	"squadvault/internal/config"
)

func newChronicleCommand(ctx *commandContext) *cobra.Command {
	var weeksFlag string
	var policyFlag string
	var approveFlag bool
	var approvedBy string

	cmd := &cobra.Command{
		Use:   "chronicle <league> <season>",
		Short: "Assemble a non-canonical chronicle from approved weekly recaps",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			leagueID := args[0]
			season, err := parseIntArg("season", args[1])
			if err != nil {
				return err
			}
			weeks, err := parseWeeks(weeksFlag)
			if err != nil {
				return err
			}
			policy, err := chronicle.ParsePolicy(policyFlag)
			if err != nil {
				return err
			}
			if approveFlag && approvedBy == "" {
				return fmt.Errorf("--approve requires --approved-by")
			}

			return ctx.withStore(func(cfg *config.Config, store *artifact.Store) error {
				assembler := chronicle.NewAssembler(store, ctx.ensureLogger())
				comp, err := assembler.Assemble(cmd.Context(), leagueID, season, weeks, policy)
				if err != nil {
					return err
				}

				created, err := store.Create(cmd.Context(), comp.Draft())
				if err != nil {
					return err
				}
				if approveFlag {
					if _, err := store.ApproveLatest(cmd.Context(), created.Key(), approvedBy,
						artifact.ApproveOptions{RequireDraft: true}); err != nil {
						return err
					}
				}

				out := cmd.OutOrStdout()
				fmt.Fprint(out, comp.RenderedText)
				fmt.Fprintf(cmd.ErrOrStderr(), "Chronicle version %d persisted (fingerprint %s)\n",
					created.Version, comp.Fingerprint)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&weeksFlag, "weeks", "", "Weeks to include, as a list or range (e.g. 1,2,5 or 1-5)")
	cmd.Flags().StringVar(&policyFlag, "missing-weeks-policy", "refuse", "Missing week policy: refuse or acknowledge")
	cmd.Flags().BoolVar(&approveFlag, "approve", false, "Approve the chronicle immediately after assembly")
	cmd.Flags().StringVar(&approvedBy, "approved-by", "", "Actor recorded when --approve is set")
	_ = cmd.MarkFlagRequired("weeks")
	return cmd
}

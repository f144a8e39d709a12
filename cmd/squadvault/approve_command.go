package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"squadvault/internal/artifact"
	"squadvault/internal/config"
)

func newApproveCommand(ctx *commandContext) *cobra.Command {
	var approvedBy string
	var requireDraft bool
	var typeFlag string

	cmd := &cobra.Command{
		Use:   "approve <league> <season> <week>",
		Short: "Approve the latest draft of an artifact lineage",
		Long: "Approve transitions the latest version of a lineage from DRAFT to APPROVED.\n" +
			"Re-approving an already approved lineage is a successful no-op that leaves\n" +
			"the original approval stamps untouched. Chronicles live at week 0.",
		Args: cobra.ExactArgs(3),
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
			artifactType, ok := artifact.ParseType(typeFlag)
			if !ok {
				return fmt.Errorf("unknown artifact type %q", typeFlag)
			}

			return ctx.withStore(func(cfg *config.Config, store *artifact.Store) error {
				key := artifact.Key{LeagueID: leagueID, Season: season, WeekIndex: week, Type: artifactType}
				approved, err := store.ApproveLatest(cmd.Context(), key, approvedBy,
					artifact.ApproveOptions{RequireDraft: requireDraft})
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if approved == nil {
					fmt.Fprintf(out, "Nothing to approve for %s %d week %d %s\n",
						leagueID, season, week, artifactType)
					return nil
				}
				fmt.Fprintf(out, "Approved %s %d week %d %s version %d by %s at %s\n",
					leagueID, season, week, artifactType,
					approved.Version, approved.ApprovedBy, formatTime(approved.ApprovedAt))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&approvedBy, "approved-by", "", "Actor recorded on the approval")
	cmd.Flags().BoolVar(&requireDraft, "require-draft", false, "Fail unless the latest version is a draft")
	cmd.Flags().StringVar(&typeFlag, "type", string(artifact.TypeWeeklyRecap), "Artifact type (weekly_recap or rivalry_chronicle)")
	_ = cmd.MarkFlagRequired("approved-by")
	return cmd
}

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"squadvault/internal/artifact"
	"squadvault/internal/config"
)

func newArtifactsCommand(ctx *commandContext) *cobra.Command {
	artifactsCmd := &cobra.Command{
		Use:   "artifacts",
		Short: "Inspect persisted artifact lineages",
	}

	artifactsCmd.AddCommand(newArtifactsListCommand(ctx))
	artifactsCmd.AddCommand(newArtifactsShowCommand(ctx))

	return artifactsCmd
}

func newArtifactsListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list <league> <season>",
		Short: "List all artifact versions for a league season",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			leagueID := args[0]
			season, err := parseIntArg("season", args[1])
			if err != nil {
				return err
			}

			return ctx.withStore(func(cfg *config.Config, store *artifact.Store) error {
				artifacts, err := store.List(cmd.Context(), leagueID, season)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, artifactRows(artifacts))
				}

				out := cmd.OutOrStdout()
				if len(artifacts) == 0 {
					fmt.Fprintf(out, "No artifacts for %s %d\n", leagueID, season)
					return nil
				}
				headers := []string{"Week", "Type", "Version", "State", "Approved By", "Approved At"}
				rows := make([][]string, 0, len(artifacts))
				for _, a := range artifacts {
					rows = append(rows, []string{
						strconv.Itoa(a.WeekIndex),
						string(a.Type),
						strconv.Itoa(a.Version),
						string(a.State),
						dashIfEmpty(a.ApprovedBy),
						formatTime(a.ApprovedAt),
					})
				}
				aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft, alignLeft}
				if isTerminal(out) {
					fmt.Fprintln(out, renderTable(headers, rows, aligns))
					return nil
				}
				for _, row := range rows {
					fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\t%s\n",
						row[0], row[1], row[2], row[3], row[4], row[5])
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newArtifactsShowCommand(ctx *commandContext) *cobra.Command {
	var typeFlag string
	var versionFlag int
	var textOnly bool

	cmd := &cobra.Command{
		Use:   "show <league> <season> <week>",
		Short: "Show one artifact lineage, or a single version's text",
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
			artifactType, ok := artifact.ParseType(typeFlag)
			if !ok {
				return fmt.Errorf("unknown artifact type %q", typeFlag)
			}

			return ctx.withStore(func(cfg *config.Config, store *artifact.Store) error {
				key := artifact.Key{LeagueID: leagueID, Season: season, WeekIndex: week, Type: artifactType}
				lineage, err := store.Lineage(cmd.Context(), key)
				if err != nil {
					return err
				}
				if len(lineage) == 0 {
					return fmt.Errorf("no versions for %s %d week %d %s", leagueID, season, week, artifactType)
				}

				selected := lineage[len(lineage)-1]
				if versionFlag > 0 {
					selected = nil
					for _, a := range lineage {
						if a.Version == versionFlag {
							selected = a
							break
						}
					}
					if selected == nil {
						return fmt.Errorf("version %d not found (lineage has %d versions)", versionFlag, len(lineage))
					}
				}

				out := cmd.OutOrStdout()
				if textOnly {
					fmt.Fprint(out, selected.RenderedText)
					return nil
				}

				fmt.Fprintf(out, "%s %d week %d %s\n", leagueID, season, week, artifactType)
				for _, a := range lineage {
					marker := " "
					if a.Version == selected.Version {
						marker = "*"
					}
					supersedes := "-"
					if a.SupersedesVersion != nil {
						supersedes = strconv.Itoa(*a.SupersedesVersion)
					}
					fmt.Fprintf(out, "%s v%d %s supersedes=%s approved_by=%s approved_at=%s\n",
						marker, a.Version, a.State, supersedes,
						dashIfEmpty(a.ApprovedBy), formatTime(a.ApprovedAt))
					if a.State == artifact.StateWithheld {
						fmt.Fprintf(out, "  withheld_reason: %s\n", a.WithheldReason)
					}
				}
				fmt.Fprintf(out, "\nSelection fingerprint: %s\n\n", selected.SelectionFingerprint)
				fmt.Fprint(out, selected.RenderedText)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&typeFlag, "type", string(artifact.TypeWeeklyRecap), "Artifact type (weekly_recap or rivalry_chronicle)")
	cmd.Flags().IntVar(&versionFlag, "version", 0, "Specific version to show (default latest)")
	cmd.Flags().BoolVar(&textOnly, "text", false, "Print only the rendered text")
	return cmd
}

type artifactRow struct {
	WeekIndex            int    `json:"week_index"`
	ArtifactType         string `json:"artifact_type"`
	Version              int    `json:"version"`
	State                string `json:"state"`
	SelectionFingerprint string `json:"selection_fingerprint"`
	ApprovedBy           string `json:"approved_by,omitempty"`
	ApprovedAt           string `json:"approved_at,omitempty"`
	WithheldReason       string `json:"withheld_reason,omitempty"`
}

func artifactRows(artifacts []*artifact.Artifact) []artifactRow {
	rows := make([]artifactRow, 0, len(artifacts))
	for _, a := range artifacts {
		row := artifactRow{
			WeekIndex:            a.WeekIndex,
			ArtifactType:         string(a.Type),
			Version:              a.Version,
			State:                string(a.State),
			SelectionFingerprint: a.SelectionFingerprint,
			ApprovedBy:           a.ApprovedBy,
		}
		if a.ApprovedAt != nil {
			row.ApprovedAt = formatTime(a.ApprovedAt)
		}
		if a.State == artifact.StateWithheld {
			row.WithheldReason = a.WithheldReason
		}
		rows = append(rows, row)
	}
	return rows
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

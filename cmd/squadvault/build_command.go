package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"squadvault/internal/artifact"
	"squadvault/internal/config"
	"squadvault/internal/exportdoc"
	"squadvault/internal/pipeline"
	"squadvault/internal/selection"
	"squadvault/internal/signalfile"
	"squadvault/internal/textutil"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var signalsPath string

	cmd := &cobra.Command{
		Use:   "build <league> <season> <week>",
		Short: "Build a weekly recap draft from a signal batch",
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

			signals, err := signalfile.Load(signalsPath)
			if err != nil {
				return err
			}

			return ctx.withStore(func(cfg *config.Config, store *artifact.Store) error {
				p := pipeline.New(store, selection.ParseConfidence(cfg.Selection.MinConfidence), ctx.ensureLogger())
				result, err := p.BuildWeek(cmd.Context(), leagueID, season, week,
					signalfile.Batch(signals), signalfile.Adapter{})
				if err != nil {
					return err
				}

				exportPath, err := writeAssemblyDoc(cfg, result)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Built %s %d week %d: version %d (%s)\n",
					leagueID, season, week, result.Artifact.Version, result.Artifact.State)
				fmt.Fprintf(out, "Selection fingerprint: %s\n", result.SelectionSet.Fingerprint)
				fmt.Fprintf(out, "Assembly document: %s\n", exportPath)
				if result.Artifact.State == artifact.StateWithheld {
					fmt.Fprintf(out, "Withheld: %s\n", result.Artifact.WithheldReason)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&signalsPath, "signals", "", "Path to the JSON signal batch")
	_ = cmd.MarkFlagRequired("signals")
	return cmd
}

func writeAssemblyDoc(cfg *config.Config, result *pipeline.BuildResult) (string, error) {
	doc, err := exportdoc.Write(result.SelectionSet)
	if err != nil {
		return "", fmt.Errorf("write assembly document: %w", err)
	}
	name := fmt.Sprintf("%s-%d-w%d-%s.txt",
		textutil.SanitizeFileName(result.SelectionSet.LeagueID), result.SelectionSet.Season,
		result.SelectionSet.WeekIndex, result.SelectionSet.SelectionSetID)
	path := filepath.Join(cfg.Paths.ExportDir, name)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("write assembly document: %w", err)
	}
	return path, nil
}

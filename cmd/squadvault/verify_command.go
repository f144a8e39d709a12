package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"squadvault/internal/exportdoc"
)

func newVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "verify <file>",
		Short:       "Verify an exported selection assembly document",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read assembly document: %w", err)
			}
			if err := exportdoc.Verify(string(data)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: verified\n", args[0])
			return nil
		},
	}
}

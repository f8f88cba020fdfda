package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report <file>...",
	Short: "Prints repetition statistics for each file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reports, err := newEngine().DetectFiles(cmd.Context(), args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, report := range reports {
			s := report.Stats
			headerColor.Fprintf(out, "%s\n", report.Source)
			fmt.Fprintf(out, "  tokens: %v\n", report.Tokens)
			fmt.Fprintf(out, "  window: %v\n", report.Window)
			fmt.Fprintf(out, "  steps: %v (%v copies)\n", s.Steps, s.Copies)
			fmt.Fprintf(out, "  compression ratio: %.2f%%\n", s.CompressionRatio*100)
			fmt.Fprintf(out, "  coverage: %.2f%%\n", s.Coverage*100)
			fmt.Fprintf(out, "  repeated spans: %v, longest %v\n", len(report.Groups), s.LongestGroup)
			fmt.Fprintf(out, "  span length: mean %.2f, stddev %.2f\n", s.MeanGroupLength, s.StdDevGroupLength)
			fmt.Fprintf(out, "  occurrences per span: mean %.2f\n", s.MeanOccurrences)
		}
		return nil
	},
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/FitrahHaque/Repetition-Engine/engine"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var asJSON bool

func init() {
	detectCmd.Flags().BoolVar(&asJSON, "json", false, "print reports as JSON")
	rootCmd.AddCommand(detectCmd)
}

var detectCmd = &cobra.Command{
	Use:   "detect <file>...",
	Short: "Prints the repeated spans of each file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reports, err := newEngine().DetectFiles(cmd.Context(), args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(reports)
		}
		for _, report := range reports {
			printGroups(out, report)
		}
		return nil
	},
}

var (
	headerColor   = color.New(color.Bold)
	tokensColor   = color.New(color.FgCyan)
	intervalColor = color.New(color.FgGreen)
)

func printGroups(out io.Writer, report *engine.Report) {
	headerColor.Fprintf(out, "%s: %d tokens, %d repeated spans\n", report.Source, report.Tokens, len(report.Groups))
	for _, g := range report.Groups {
		spans := make([]string, len(g.Intervals))
		for i, iv := range g.Intervals {
			spans[i] = fmt.Sprintf("[%d,%d)", iv[0], iv[1])
		}
		fmt.Fprintf(out, "  %s %s\n",
			tokensColor.Sprintf("(%s)", strings.Join(g.Tokens, ", ")),
			intervalColor.Sprint(strings.Join(spans, " ")),
		)
	}
}

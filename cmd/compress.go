package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(compressCmd)
}

var compressCmd = &cobra.Command{
	Use:   "compress <file>",
	Short: "Prints the copy triple stream of a file",
	Long: `Prints one <offset,length,next> triple per step. Literal steps have
offset 0 and length 0; "end" marks the step that consumes the last token.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := newEngine().DetectFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, step := range report.Stream {
			fmt.Fprintln(out, step)
		}
		return nil
	},
}

package cmd

import (
	"github.com/mj1618/desktop-text/internal/output"
	"github.com/spf13/cobra"
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Select the text matching a query",
	Long: `Select the text matching a query.

The selection is made through the accessibility API when the range lies in a
single text object. Otherwise the mouse is dragged across the text, which
needs on-screen coordinates; the output reports method: native or drag.`,
	Args: cobra.NoArgs,
	RunE: runSelect,
}

func init() {
	rootCmd.AddCommand(selectCmd)
	addQueryFlags(selectCmd)
}

func runSelect(cmd *cobra.Command, args []string) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}
	return withSession(func(s *session) error {
		result, err := executeSelect(cmd.Context(), s, q)
		if err != nil {
			return err
		}
		result.OK = true
		return output.Print(result)
	})
}

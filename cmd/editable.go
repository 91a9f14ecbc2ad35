package cmd

import (
	"github.com/mj1618/desktop-text/internal/output"
	"github.com/spf13/cobra"
)

var editableCmd = &cobra.Command{
	Use:   "editable",
	Short: "Report whether the focused element accepts text input",
	Args:  cobra.NoArgs,
	RunE:  runEditable,
}

func init() {
	rootCmd.AddCommand(editableCmd)
}

func runEditable(cmd *cobra.Command, args []string) error {
	return withSession(func(s *session) error {
		result, err := executeEditable(cmd.Context(), s)
		if err != nil {
			return err
		}
		result.OK = true
		return output.Print(result)
	})
}

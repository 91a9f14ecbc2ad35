package cmd

import (
	"github.com/mj1618/desktop-text/internal/output"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the text matching a query and its screen coordinates",
	Long: `Print the text matching a query, its offsets, and screen points at the
left-middle of its first character and right-middle of its last character.

The points are omitted when the application reports off-screen geometry for
the text.`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	addQueryFlags(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}
	return withSession(func(s *session) error {
		result, err := executeInfo(cmd.Context(), s, q)
		if err != nil {
			return err
		}
		result.OK = true
		return output.Print(result)
	})
}

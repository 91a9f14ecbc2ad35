package cmd

import (
	"github.com/mj1618/desktop-text/internal/a11y"
	"github.com/mj1618/desktop-text/internal/output"
	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move",
	Short: "Move the caret to the start or end of a phrase",
	Long: `Move the caret to one end of the text matching a query.

When the phrase occurs more than once, the occurrence nearest the caret is used.

Examples:
  desktop-text move --phrase "quick brown" --to end
  desktop-text move --start "hello" --end "world" --end-after`,
	Args: cobra.NoArgs,
	RunE: runMove,
}

func init() {
	rootCmd.AddCommand(moveCmd)
	addQueryFlags(moveCmd)
	moveCmd.Flags().String("to", "start", "Boundary to move to: start, end")
}

func runMove(cmd *cobra.Command, args []string) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}
	toStr, _ := cmd.Flags().GetString("to")
	to, err := a11y.ParseBoundary(toStr)
	if err != nil {
		return err
	}
	return withSession(func(s *session) error {
		result, err := executeMove(cmd.Context(), s, q, to)
		if err != nil {
			return err
		}
		result.OK = true
		return output.Print(result)
	})
}

package cmd

import (
	"github.com/mj1618/desktop-text/internal/output"
	"github.com/spf13/cobra"
)

var cursorCmd = &cobra.Command{
	Use:   "cursor",
	Short: "Read or move the caret in the focused element",
}

var cursorGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the caret offset",
	Long: `Print the caret offset in the focused element's text.

Offsets count characters of the flattened text, in which every run of plain
text is followed by a separator character (¦). Embedded objects such as links
contribute their own text and separators.`,
	Args: cobra.NoArgs,
	RunE: runCursorGet,
}

var cursorSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Move the caret to an offset",
	Args:  cobra.NoArgs,
	RunE:  runCursorSet,
}

func init() {
	rootCmd.AddCommand(cursorCmd)
	cursorCmd.AddCommand(cursorGetCmd)
	cursorCmd.AddCommand(cursorSetCmd)
	cursorSetCmd.Flags().Int("offset", 0, "Caret offset in the flattened text")
	_ = cursorSetCmd.MarkFlagRequired("offset")
}

func runCursorGet(cmd *cobra.Command, args []string) error {
	return withSession(func(s *session) error {
		result, err := executeGetCursor(cmd.Context(), s)
		if err != nil {
			return err
		}
		result.OK = true
		return output.Print(result)
	})
}

func runCursorSet(cmd *cobra.Command, args []string) error {
	offset, _ := cmd.Flags().GetInt("offset")
	return withSession(func(s *session) error {
		result, err := executeSetCursor(cmd.Context(), s, offset)
		if err != nil {
			return err
		}
		result.OK = true
		return output.Print(result)
	})
}

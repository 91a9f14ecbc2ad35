package cmd

import (
	"github.com/mj1618/desktop-text/internal/output"
	"github.com/spf13/cobra"
)

var replaceCmd = &cobra.Command{
	Use:   "replace",
	Short: "Replace the text matching a query",
	Long: `Select the text matching a query and type a replacement over it.

The replacement follows the capitalisation of the replaced text: all caps,
leading capital, or lower case. An empty --with deletes the text and the
whitespace before it. The caret is restored relative to the surrounding text.

Examples:
  desktop-text replace --phrase "teh" --with "the"
  desktop-text replace --start "lorem" --end "ipsum" --with ""`,
	Args: cobra.NoArgs,
	RunE: runReplace,
}

func init() {
	rootCmd.AddCommand(replaceCmd)
	addQueryFlags(replaceCmd)
	replaceCmd.Flags().String("with", "", "Replacement text (empty deletes)")
}

func runReplace(cmd *cobra.Command, args []string) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}
	with, _ := cmd.Flags().GetString("with")
	return withSession(func(s *session) error {
		result, err := executeReplace(cmd.Context(), s, q, with)
		if err != nil {
			return err
		}
		result.OK = true
		return output.Print(result)
	})
}

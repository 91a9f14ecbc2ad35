package cmd

import (
	"fmt"

	"github.com/mj1618/desktop-text/internal/phrase"
	"github.com/spf13/cobra"
)

// addQueryFlags registers the flags that describe a text query.
func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("phrase", "", "Match this phrase")
	cmd.Flags().String("start", "", "Match from this phrase (requires --end)")
	cmd.Flags().String("end", "", "Match to this phrase; without --start the range runs from the caret")
	cmd.Flags().Bool("start-before", false, "Start just before the --start phrase")
	cmd.Flags().Bool("start-after", false, "Start just after the --start phrase")
	cmd.Flags().Bool("end-before", false, "End just before the --end phrase")
	cmd.Flags().Bool("end-after", false, "End just after the --end phrase")
}

func queryFromFlags(cmd *cobra.Command) (phrase.TextQuery, error) {
	var q phrase.TextQuery
	q.FullPhrase, _ = cmd.Flags().GetString("phrase")
	q.StartPhrase, _ = cmd.Flags().GetString("start")
	q.EndPhrase, _ = cmd.Flags().GetString("end")
	q.StartBefore, _ = cmd.Flags().GetBool("start-before")
	q.StartAfter, _ = cmd.Flags().GetBool("start-after")
	q.EndBefore, _ = cmd.Flags().GetBool("end-before")
	q.EndAfter, _ = cmd.Flags().GetBool("end-after")
	if err := q.Validate(); err != nil {
		return phrase.TextQuery{}, fmt.Errorf("%w (use --phrase, or --start with --end, or --end alone)", err)
	}
	return q, nil
}

// queryFromParams reads a text query from a do step or MCP tool call,
// using the same names as the flags.
func queryFromParams(params map[string]interface{}) (phrase.TextQuery, error) {
	q := phrase.TextQuery{
		FullPhrase:  stringParam(params, "phrase", ""),
		StartPhrase: stringParam(params, "start", ""),
		EndPhrase:   stringParam(params, "end", ""),
		StartBefore: boolParam(params, "start-before", false),
		StartAfter:  boolParam(params, "start-after", false),
		EndBefore:   boolParam(params, "end-before", false),
		EndAfter:    boolParam(params, "end-after", false),
	}
	if err := q.Validate(); err != nil {
		return phrase.TextQuery{}, err
	}
	return q, nil
}

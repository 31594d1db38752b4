package commands

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/haivivi/beatsmith/pkg/cli"
	"github.com/haivivi/beatsmith/pkg/level"
)

var inspectQuery string

var inspectCmd = &cobra.Command{
	Use:   "inspect <level.json>",
	Short: "Summarize or query a level file",
	Long: `Print note statistics for a level file, or run a jq expression over it.

Examples:
  beatsmith inspect pack/Expert.json
  beatsmith inspect pack/Expert.json --query '[._notes[] | ._cutDirection] | group_by(.) | map(length)'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if inspectQuery != "" {
			q, err := cli.ParseQuery(inspectQuery)
			if err != nil {
				return err
			}
			var v any
			if err := cli.LoadFile(path, &v); err != nil {
				return err
			}
			results, err := q.Run(cmd.Context(), v)
			if err != nil {
				return err
			}
			for _, r := range results {
				data, err := json.Marshal(r)
				if err != nil {
					return err
				}
				fmt.Println(string(data))
			}
			return nil
		}

		var l level.Instructions
		if err := cli.LoadFile(path, &l); err != nil {
			return err
		}
		stats := l.Stats()
		format, err := getFormat()
		if err != nil {
			return err
		}
		if format != cli.FormatText {
			return output(stats)
		}
		fmt.Print(cli.Summary{
			Styles: cli.NewStyles(cli.DefaultTheme),
			Title:  path,
			Fields: []cli.Field{
				{Label: "Version", Value: l.Version},
				{Label: "Tempo", Value: fmt.Sprintf("%g bpm, %d beats per bar", l.BeatsPerMinute, l.BeatsPerBar)},
				{Label: "Notes", Value: strconv.Itoa(stats.Notes)},
				{Label: "Span", Value: fmt.Sprintf("beat %g to %g", stats.FirstBeat, stats.LastBeat)},
				{Label: "Hands", Value: fmt.Sprintf("%d left, %d right", stats.LeftHand, stats.RightHand)},
				{Label: "Notes/bar", Value: strconv.FormatFloat(stats.NotesPerBar, 'f', 2, 64)},
			},
		}.Render())
		return nil
	},
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectQuery, "query", "q", "", "jq expression to evaluate")
	rootCmd.AddCommand(inspectCmd)
}

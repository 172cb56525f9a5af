package main

import (
	"github.com/spf13/cobra"

	"poi-workers/internal/models"
	openinghours "poi-workers/internal/workers/poi/opening-hours"
)

func newHoursCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hours <schedule>",
		Short: "Evaluate an opening-hours schedule at a point in time",
		Example: `  resolver-cli hours "Mon-Fri: 9 am to 5 pm" --at 2024-01-15T16:30:00Z
  resolver-cli hours '{"monday": "12:00-23:00"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := evaluationTime()
			if err != nil {
				return err
			}

			schedule := openinghours.Parse(models.RawOpeningHours{Text: args[0]})
			return printJSON(cmd.OutOrStdout(), struct {
				Format openinghours.Format  `json:"format"`
				At     string               `json:"at"`
				Status models.OpeningStatus `json:"status"`
			}{
				Format: schedule.Format(),
				At:     now.Format("Monday 15:04"),
				Status: openinghours.Evaluate(schedule, now),
			})
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	classifyquery "poi-workers/internal/workers/conversation/classify-query"
	followuppolicy "poi-workers/internal/workers/conversation/follow-up-policy"
	resolvecontext "poi-workers/internal/workers/conversation/resolve-context"
	fetchpoidetails "poi-workers/internal/workers/data-access/fetch-poi-details"
	searchpois "poi-workers/internal/workers/data-access/search-pois"
	openinghours "poi-workers/internal/workers/poi/opening-hours"
	resolveturn "poi-workers/internal/workers/poi/resolve-turn"
	scorerelevance "poi-workers/internal/workers/poi/score-relevance"
	"poi-workers/pkg/registry"
)

var implementedTaskTypes = []string{
	classifyquery.TaskType,
	followuppolicy.TaskType,
	resolvecontext.TaskType,
	scorerelevance.TaskType,
	openinghours.TaskType,
	searchpois.TaskType,
	fetchpoidetails.TaskType,
	resolveturn.TaskType,
}

func newActivitiesCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "activities",
		Short: "List the registered service tasks and check them against the workers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return fmt.Errorf("load registry: %w", err)
			}
			if err := reg.Validate(implementedTaskTypes); err != nil {
				return fmt.Errorf("registry %s is out of date:\n%w", path, err)
			}

			out := cmd.OutOrStdout()
			for _, a := range reg.Activities {
				fmt.Fprintf(out, "%-24s %-14s %-10s %s\n", a.TaskType, a.Category, a.ImplementationStatus, a.DisplayName)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "registry", "configs/activity-registry.json", "path to the activity registry")
	return cmd
}

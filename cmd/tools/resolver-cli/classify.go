package main

import (
	"context"

	"github.com/spf13/cobra"

	classifyquery "poi-workers/internal/workers/conversation/classify-query"
	followuppolicy "poi-workers/internal/workers/conversation/follow-up-policy"
)

func newClassifyCmd() *cobra.Command {
	var previousPath string

	cmd := &cobra.Command{
		Use:     "classify <utterance>",
		Short:   "Classify an utterance against a previous result list",
		Example: `  resolver-cli classify "is the second one open?" --previous previous.json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			previous, err := readPOIs(previousPath)
			if err != nil {
				return err
			}

			classifier := classifyquery.NewClassifier(classifyquery.LoadConfig(), nil, cliLogger())
			detection := classifier.Classify(context.Background(), args[0], previous)

			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"detection": detection,
				"followUp":  followuppolicy.Decide(detection, len(previous), args[0]),
			})
		},
	}

	cmd.Flags().StringVarP(&previousPath, "previous", "p", "", "JSON file with the previous turn's POIs")
	return cmd
}

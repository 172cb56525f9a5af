package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"poi-workers/internal/common/validation"
	classifyquery "poi-workers/internal/workers/conversation/classify-query"
	resolveturn "poi-workers/internal/workers/poi/resolve-turn"
	scorerelevance "poi-workers/internal/workers/poi/score-relevance"
)

func newTurnCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "turn",
		Short: "Resolve a full turn from a resolve-poi-turn variables file",
		Long: `turn reads the same JSON variables the resolve-poi-turn worker receives.
Without data stores the fresh path ranks the file's "candidates" and ids in
"previousPoiIds" are not hydrated.`,
		Example: `  resolver-cli turn --file turn.json --at 2024-01-15T10:00:00Z`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}

			result, err := validation.ValidateJSON(validation.ResolveTurnSchema, string(data))
			if err != nil {
				return err
			}
			if !result.Valid {
				return fmt.Errorf("invalid turn input: %s", strings.Join(result.GetErrorMessages(), "; "))
			}

			var input resolveturn.Input
			if err := json.Unmarshal(data, &input); err != nil {
				return fmt.Errorf("decode %s: %w", file, err)
			}

			now, err := evaluationTime()
			if err != nil {
				return err
			}
			if input.Now != nil && atFlag == "" {
				now = *input.Now
			}

			log := cliLogger()
			turn := resolveturn.NewTurn(resolveturn.LoadConfig(), resolveturn.Dependencies{
				Classifier: classifyquery.NewClassifier(classifyquery.LoadConfig(), nil, log),
				Scorer:     scorerelevance.NewScorerFromConfig(scorerelevance.LoadConfig()),
			}, log)

			out, err := turn.Resolve(context.Background(), &input, now)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "turn variables JSON file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

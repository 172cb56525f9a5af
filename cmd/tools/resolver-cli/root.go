package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"poi-workers/internal/common/logger"
	"poi-workers/internal/models"
)

var (
	verbose bool
	atFlag  string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "resolver-cli",
		Short: "Run the POI resolver components locally",
		Long: `resolver-cli evaluates opening hours, classifies utterances and runs
whole conversational turns without a Zeebe broker or data stores.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log component decisions to stderr")
	root.PersistentFlags().StringVar(&atFlag, "at", "", "evaluation time in RFC 3339 (defaults to now)")

	root.AddCommand(newHoursCmd(), newClassifyCmd(), newTurnCmd(), newActivitiesCmd())
	return root
}

func cliLogger() logger.Logger {
	if verbose {
		return logger.NewStructured("debug", "console")
	}
	return logger.NewNoOpLogger()
}

func evaluationTime() (time.Time, error) {
	if atFlag == "" {
		return time.Now(), nil
	}
	at, err := time.Parse(time.RFC3339, atFlag)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at: %w", err)
	}
	return at, nil
}

func readPOIs(path string) ([]models.POI, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var pois []models.POI
	if err := json.Unmarshal(data, &pois); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return pois, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

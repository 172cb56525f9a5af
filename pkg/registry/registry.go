// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// Find returns the activity bound to taskType.
func (r *ActivityRegistry) Find(taskType string) (Activity, bool) {
	for _, a := range r.Activities {
		if a.TaskType == taskType {
			return a, true
		}
	}
	return Activity{}, false
}

// Validate checks every entry and, when implemented is non-empty, that the
// registry and the implemented task types agree in both directions.
func (r *ActivityRegistry) Validate(implemented []string) error {
	var errs []error
	seen := make(map[string]bool, len(r.Activities))

	for i, a := range r.Activities {
		if a.ID == "" || a.TaskType == "" {
			errs = append(errs, fmt.Errorf("activity %d: id and taskType are required", i))
			continue
		}
		if seen[a.TaskType] {
			errs = append(errs, fmt.Errorf("activity %s: duplicate task type %q", a.ID, a.TaskType))
		}
		seen[a.TaskType] = true

		if !implementationStatuses[a.ImplementationStatus] {
			errs = append(errs, fmt.Errorf("activity %s: unknown status %q", a.ID, a.ImplementationStatus))
		}
		if a.Timeout != "" {
			if _, err := time.ParseDuration(a.Timeout); err != nil {
				errs = append(errs, fmt.Errorf("activity %s: invalid timeout %q", a.ID, a.Timeout))
			}
		}
		if a.Retries < 0 {
			errs = append(errs, fmt.Errorf("activity %s: negative retries", a.ID))
		}
	}

	for _, taskType := range implemented {
		if !seen[taskType] {
			errs = append(errs, fmt.Errorf("task type %q has a worker but no registry entry", taskType))
		}
		delete(seen, taskType)
	}
	if len(implemented) > 0 {
		for taskType := range seen {
			errs = append(errs, fmt.Errorf("task type %q is registered but has no worker", taskType))
		}
	}

	return errors.Join(errs...)
}

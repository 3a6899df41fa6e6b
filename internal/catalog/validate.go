package catalog

import (
	"fmt"
	"strings"
)

// validateModules checks the module list and reports every problem found.
func validateModules(modules []Module, journeyMarker ModuleID) error {
	if len(modules) == 0 {
		return fmt.Errorf("catalog validation failed:\n  catalog has no modules")
	}

	var errs []string
	seen := make(map[ModuleID]bool, len(modules))
	for i, m := range modules {
		if strings.TrimSpace(string(m.ID)) == "" {
			errs = append(errs, fmt.Sprintf("module %d has an empty ID", i))
			continue
		}
		if seen[m.ID] {
			errs = append(errs, fmt.Sprintf("duplicate module ID: %q", m.ID))
		}
		seen[m.ID] = true
		if m.RequiredPoints < 0 {
			errs = append(errs, fmt.Sprintf("module %q: required_points must be >= 0, got %d", m.ID, m.RequiredPoints))
		}
		if !m.Kind.valid() {
			errs = append(errs, fmt.Sprintf("module %q: unknown kind %q", m.ID, m.Kind))
		}
	}

	if journeyMarker != "" && !seen[journeyMarker] {
		errs = append(errs, fmt.Sprintf("journey marker %q is not a module", journeyMarker))
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

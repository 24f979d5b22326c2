package player

import (
	"fmt"
	"os/exec"
	"strings"
)

// Checker verifies that required executables are on PATH.
type Checker struct {
	dependencies []string
}

// NewChecker creates a checker for the given executables.
func NewChecker(deps ...string) *Checker {
	return &Checker{dependencies: deps}
}

// CheckAll returns a *MissingDependenciesError listing every executable that is not found.
func (c *Checker) CheckAll() error {
	var missing []string

	for _, dep := range c.dependencies {
		if !c.IsAvailable(dep) {
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return &MissingDependenciesError{Dependencies: missing}
	}

	return nil
}

// IsAvailable reports whether name resolves to an executable.
func (c *Checker) IsAvailable(name string) bool {
	_, err := exec.LookPath(name)

	return err == nil
}

// MissingDependenciesError is returned when required executables are missing.
type MissingDependenciesError struct {
	Dependencies []string
}

func (e *MissingDependenciesError) Error() string {
	return fmt.Sprintf("missing dependencies: %s (install them or set player_command)",
		strings.Join(e.Dependencies, ", "))
}

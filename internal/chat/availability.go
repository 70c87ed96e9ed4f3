package chat

import (
	"fmt"
	"os/exec"
)

// Available reports an error when the engine's CLI cannot be found in PATH.
func (e *CommandEngine) Available() error {
	if _, err := exec.LookPath(e.binary()); err != nil {
		return fmt.Errorf("chat engine %q not available: %w", e.binary(), err)
	}
	return nil
}

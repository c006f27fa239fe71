package commands

import (
	"fmt"

	"github.com/imamik/podtrain/internal/orchestration"
)

// ErrorMessage formats a command failure for stderr. Configuration
// failures get a pointer to the config printout.
func ErrorMessage(err error) string {
	msg := fmt.Sprintf("Error: %v", err)
	if kind, ok := orchestration.KindOf(err); ok && kind == orchestration.KindConfig {
		msg += "\nRun podtrain without an action to print the merged configuration."
	}
	return msg
}

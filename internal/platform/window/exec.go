package window

import (
	"context"
	"os/exec"
	"strings"

	"github.com/penwyp/go-kicad-wakatime/internal/core/constants"
)

// runCommand executes an OS helper binary and returns its trimmed stdout.
// Every call is bounded so a hung helper cannot stall a tick.
func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ObserveTimeout)
	defer cancel()

	output, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

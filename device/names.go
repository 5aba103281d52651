package device

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ListNames returns the card name of every video device node known to
// v4l2-ctl, keyed by node path. Nodes of the Raspberry Pi codec and ISP
// blocks are left out, they cannot take pictures.
func ListNames(ctx context.Context) (map[string]string, error) {
	cmd := exec.CommandContext(ctx, "v4l2-ctl", "--list-devices")
	buf, err := cmd.Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			err = ErrInstallHint
		}
		return nil, fmt.Errorf("listing devices using v4l2-ctl: %w", err)
	}
	return parseNames(string(buf)), nil
}

// parseNames parses the output of "v4l2-ctl --list-devices": a card line
// followed by its device nodes, each indented with a tab.
func parseNames(s string) map[string]string {
	names := map[string]string{}
	var card string
	for _, line := range strings.Split(s, "\n") {
		if !strings.HasPrefix(line, "\t") {
			card = strings.TrimSuffix(strings.TrimSpace(line), ":")
			continue
		}
		if card == "" || strings.HasPrefix(card, "bcm2835-") {
			continue
		}
		node := strings.TrimSpace(line)
		if !strings.HasPrefix(node, "/dev/video") {
			continue
		}
		names[node] = card
	}
	return names
}

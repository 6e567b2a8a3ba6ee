package printing

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Viewer hands a written receipt to the user
type Viewer interface {
	Open(ctx context.Context, path string) error
}

// CommandViewer runs a configured program with the receipt path appended
// as its last argument, e.g. "xdg-open" or "lp -d receipts".
type CommandViewer struct {
	name   string
	args   []string
	logger *zap.Logger
}

// NewCommandViewer parses command into program and arguments. An empty
// command returns nil, meaning no viewer.
func NewCommandViewer(command string, logger *zap.Logger) *CommandViewer {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandViewer{name: fields[0], args: fields[1:], logger: logger}
}

// Open runs the viewer and waits for it to exit
func (v *CommandViewer) Open(ctx context.Context, path string) error {
	if path == "" {
		return NewRenderError(ErrCodeViewerFailed, "receipt has no local path to open", nil)
	}
	args := append(append([]string{}, v.args...), path)
	cmd := exec.CommandContext(ctx, v.name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			v.logger.Warn("Receipt viewer exited with error",
				zap.String("viewer", v.name),
				zap.Int("exit_code", exitErr.ExitCode()),
				zap.ByteString("output", out))
		}
		return NewRenderError(ErrCodeViewerFailed, "failed to run receipt viewer "+v.name, err)
	}
	v.logger.Debug("Receipt opened", zap.String("viewer", v.name), zap.String("path", path))
	return nil
}

// Ensure CommandViewer implements Viewer
var _ Viewer = (*CommandViewer)(nil)

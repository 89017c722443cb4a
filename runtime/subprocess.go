package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Invocation describes one bounded run of a connector entrypoint.
type Invocation struct {
	// Entrypoint is the command line launching the connector, e.g.
	// "go run ." or "./connector".
	Entrypoint string
	// Args are appended to the entrypoint, e.g. ["run", "-j", "{...}"].
	Args []string
	WorkDir string
	Env     map[string]string
	Stdout  io.Writer
	Stderr  io.Writer
}

// Invoke runs the entrypoint once and waits for it to finish. It returns
// the child's exit code; a non-zero child exit is not an error here — the
// caller decides what the code means. Errors are reserved for failures to
// start or signal-terminated children.
func Invoke(ctx context.Context, inv Invocation) (int, error) {
	fields := strings.Fields(inv.Entrypoint)
	if len(fields) == 0 {
		return -1, fmt.Errorf("empty entrypoint")
	}
	args := append(fields[1:], inv.Args...)

	cmd := exec.CommandContext(ctx, fields[0], args...)
	cmd.Dir = inv.WorkDir

	env := os.Environ()
	for k, v := range inv.Env {
		env = append(env, k+"="+v)
	}
	cmd.Env = env

	cmd.Stdout = inv.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = inv.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code, nil
		}
		return -1, fmt.Errorf("connector terminated by signal: %w", err)
	}
	return -1, fmt.Errorf("starting connector: %w", err)
}

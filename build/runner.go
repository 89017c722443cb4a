// Package build implements the gated stages of the connector build
// pipeline: toolchain provisioning, dependency resolution, lint, tests
// with a coverage floor, vulnerability and security audits, marketplace
// metadata, and the provenance stamp. Each stage fails with its own
// pipeline failure category so the build exit status names the gate that
// rejected the connector.
package build

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
)

// Command describes one external tool invocation.
type Command struct {
	Dir  string
	Env  []string
	Name string
	Args []string
}

// Result captures the outcome of a completed invocation. A non-zero
// ExitCode is a tool verdict, not a runner error.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner executes external tools. Stages hold a Runner rather than
// calling exec directly so tests can substitute canned results.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
	// LookPath reports whether the named tool is installed.
	LookPath(name string) (string, error)
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	ec := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	ec.Dir = cmd.Dir
	if cmd.Env != nil {
		ec.Env = append(os.Environ(), cmd.Env...)
	}

	var stdout, stderr bytes.Buffer
	ec.Stdout = &stdout
	ec.Stderr = &stderr

	err := ec.Run()
	res := &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		var xerr *exec.ExitError
		if errors.As(err, &xerr) {
			res.ExitCode = xerr.ExitCode()
			return res, nil
		}
		return nil, err
	}
	return res, nil
}

func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

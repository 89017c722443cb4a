package container

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// PodmanBuilder builds images with the podman CLI.
type PodmanBuilder struct{}

func (b *PodmanBuilder) Name() string { return "podman" }

func (b *PodmanBuilder) Available() bool {
	return exec.Command("podman", "info").Run() == nil
}

func (b *PodmanBuilder) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	args := append([]string{"build"}, commonArgs(opts)...)

	cmd := exec.CommandContext(ctx, "podman", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("podman build failed: %s: %w", stderr.String(), err)
	}
	return &BuildResult{ImageID: lastLine(string(out)), Tag: opts.Tag}, nil
}

func (b *PodmanBuilder) Push(ctx context.Context, image string) error {
	cmd := exec.CommandContext(ctx, "podman", "push", image)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("podman push failed: %s: %w", stderr.String(), err)
	}
	return nil
}

// lastLine returns the final non-empty output line; podman and buildah
// print the image ID there.
func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}

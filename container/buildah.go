package container

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// BuildahBuilder builds images with the buildah CLI.
type BuildahBuilder struct{}

func (b *BuildahBuilder) Name() string { return "buildah" }

func (b *BuildahBuilder) Available() bool {
	return exec.Command("buildah", "version").Run() == nil
}

func (b *BuildahBuilder) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	args := append([]string{"bud"}, commonArgs(opts)...)

	cmd := exec.CommandContext(ctx, "buildah", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("buildah bud failed: %s: %w", stderr.String(), err)
	}
	return &BuildResult{ImageID: lastLine(string(out)), Tag: opts.Tag}, nil
}

func (b *BuildahBuilder) Push(ctx context.Context, image string) error {
	cmd := exec.CommandContext(ctx, "buildah", "push", image)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("buildah push failed: %s: %w", stderr.String(), err)
	}
	return nil
}

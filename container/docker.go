package container

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// DockerBuilder builds images with the docker CLI.
type DockerBuilder struct{}

func (b *DockerBuilder) Name() string { return "docker" }

func (b *DockerBuilder) Available() bool {
	return exec.Command("docker", "info").Run() == nil
}

func (b *DockerBuilder) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	args := append([]string{"build"}, commonArgs(opts)...)

	cmd := exec.CommandContext(ctx, "docker", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("docker build failed: %s: %w", stderr.String(), err)
	}
	return &BuildResult{ImageID: parseDockerImageID(string(out)), Tag: opts.Tag}, nil
}

func (b *DockerBuilder) Push(ctx context.Context, image string) error {
	cmd := exec.CommandContext(ctx, "docker", "push", image)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("docker push failed: %s: %w", stderr.String(), err)
	}
	return nil
}

// parseDockerImageID extracts the image ID from docker build output,
// which ends with "Successfully built <id>" or a bare sha256 reference.
func parseDockerImageID(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "Successfully built ") {
			return strings.TrimPrefix(line, "Successfully built ")
		}
		if strings.HasPrefix(line, "sha256:") {
			return line
		}
	}
	if len(lines) > 0 {
		return strings.TrimSpace(lines[len(lines)-1])
	}
	return ""
}

package container

import (
	"context"
	"strings"
	"testing"

	"github.com/tenable/tenint/manifest"
)

func TestGetKnownBuilders(t *testing.T) {
	for _, name := range []string{"docker", "podman", "buildah"} {
		b := Get(name)
		if b == nil {
			t.Errorf("Get(%q) returned nil", name)
			continue
		}
		if b.Name() != name {
			t.Errorf("Get(%q).Name() = %q", name, b.Name())
		}
	}
	if b := Get("unknown"); b != nil {
		t.Errorf("Get(unknown) = %v, want nil", b)
	}
}

func TestCommonArgs(t *testing.T) {
	args := commonArgs(BuildOptions{
		ContextDir: "/src",
		Dockerfile: "/src/Dockerfile",
		Tag:        "example/conn:1.0.0",
		Platform:   "linux/amd64",
		NoCache:    true,
		BuildArgs:  map[string]string{"B": "2", "A": "1"},
		Labels:     map[string]string{"z": "9", "a": "0"},
	})
	joined := strings.Join(args, " ")
	want := "-t example/conn:1.0.0 -f /src/Dockerfile --platform linux/amd64 --no-cache " +
		"--build-arg A=1 --build-arg B=2 --label a=0 --label z=9 /src"
	if joined != want {
		t.Errorf("args = %q\nwant   %q", joined, want)
	}
}

func TestCommonArgsDefaultsContextDir(t *testing.T) {
	args := commonArgs(BuildOptions{})
	if len(args) != 1 || args[0] != "." {
		t.Errorf("args = %v, want [.]", args)
	}
}

func TestParseDockerImageID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Step 5/5 : CMD\nSuccessfully built abc123\n", "abc123"},
		{"#10 exporting layers\nsha256:deadbeef\n", "sha256:deadbeef"},
		{"something else\n", "something else"},
		{"", ""},
	}
	for _, c := range cases {
		if got := parseDockerImageID(c.in); got != c.want {
			t.Errorf("parseDockerImageID(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestLastLine(t *testing.T) {
	if got := lastLine("a\nb\nimageid\n"); got != "imageid" {
		t.Errorf("lastLine = %q", got)
	}
}

type recordingBuilder struct {
	got BuildOptions
}

func (r *recordingBuilder) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	r.got = opts
	return &BuildResult{ImageID: "sha256:1", Tag: opts.Tag}, nil
}
func (r *recordingBuilder) Push(ctx context.Context, image string) error { return nil }
func (r *recordingBuilder) Available() bool                              { return true }
func (r *recordingBuilder) Name() string                                 { return "recording" }

func TestAssemble(t *testing.T) {
	m := &manifest.Manifest{
		Name:    "asset-sync",
		Version: "1.2.0",
		Author:  manifest.Author{Email: "dev@example.com"},
		Images:  manifest.Images{AMD64: "example/asset-sync:1.2.0"},
	}
	rb := &recordingBuilder{}

	res, err := Assemble(context.Background(), rb, m, AssembleOptions{ContextDir: "/src"})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if res.Tag != "example/asset-sync:1.2.0" {
		t.Errorf("tag = %q", res.Tag)
	}
	if rb.got.Labels["com.tenable.connector.name"] != "asset-sync" {
		t.Errorf("labels = %v", rb.got.Labels)
	}

	if _, err := Assemble(context.Background(), rb, m, AssembleOptions{Tag: "custom:1"}); err != nil {
		t.Fatal(err)
	}
	if rb.got.Tag != "custom:1" {
		t.Errorf("override tag = %q", rb.got.Tag)
	}

	m.Images.AMD64 = ""
	if _, err := Assemble(context.Background(), rb, m, AssembleOptions{}); err == nil {
		t.Fatal("expected error with no tag anywhere")
	}

	if _, err := Assemble(context.Background(), nil, m, AssembleOptions{Tag: "x:1"}); err == nil {
		t.Fatal("expected error with nil builder")
	}
}

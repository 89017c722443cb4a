package build

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// skipEntries are top-level entries never copied into the build
// environment: VCS state, prior build output, and editor litter.
var skipEntries = map[string]bool{
	".git":    true,
	"dist":    true,
	".idea":   true,
	".vscode": true,
}

// Snapshot copies the connector source tree from workDir into envDir so
// stages never mutate the author's checkout. envDir is created if needed
// and must be empty or absent.
func Snapshot(workDir, envDir string) error {
	if entries, err := os.ReadDir(envDir); err == nil && len(entries) > 0 {
		return fmt.Errorf("build environment %s is not empty", envDir)
	}
	if err := os.MkdirAll(envDir, 0o755); err != nil {
		return fmt.Errorf("creating build environment: %w", err)
	}
	return copyTree(workDir, envDir, true)
}

// Teardown removes the build environment directory.
func Teardown(envDir string) error {
	return os.RemoveAll(envDir)
}

func copyTree(src, dst string, top bool) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	for _, e := range entries {
		if top && (skipEntries[e.Name()] || strings.HasPrefix(e.Name(), "_")) {
			continue
		}
		from := filepath.Join(src, e.Name())
		to := filepath.Join(dst, e.Name())

		if e.IsDir() {
			if err := os.MkdirAll(to, 0o755); err != nil {
				return err
			}
			if err := copyTree(from, to, false); err != nil {
				return err
			}
			continue
		}
		if !e.Type().IsRegular() {
			continue
		}
		if err := copyFile(from, to); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(from, to string) error {
	in, err := os.Open(from)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(to, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

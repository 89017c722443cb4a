package templates

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

// Data feeds the project scaffold templates.
type Data struct {
	Name        string // display title
	Slug        string // manifest name and binary name
	Description string
	Module      string // go module path of the new connector
	GoVersion   string
	AuthorName  string
	AuthorEmail string
	Tags        []string
	Image       string // amd64 image reference
	Repository  string
	Logo        string
	Support     string
}

// initFiles maps each scaffold template to its rendered file name.
var initFiles = []struct {
	src string
	dst string
}{
	{"connector.yaml.tmpl", "connector.yaml"},
	{"go.mod.tmpl", "go.mod"},
	{"main.go.tmpl", "main.go"},
	{"main_test.go.tmpl", "main_test.go"},
	{"Dockerfile.tmpl", "Dockerfile"},
	{"gitignore.tmpl", ".gitignore"},
	{"README.md.tmpl", "README.md"},
}

// Scaffold renders the connector project skeleton into dir and returns
// the created file names. Existing files fail the whole scaffold unless
// force is set; nothing is written before that check passes.
func Scaffold(dir string, d Data, force bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating project directory: %w", err)
	}

	if !force {
		for _, f := range initFiles {
			path := filepath.Join(dir, f.dst)
			if _, err := os.Stat(path); err == nil {
				return nil, fmt.Errorf("%s already exists (use --force to overwrite)", f.dst)
			}
		}
	}

	var written []string
	for _, f := range initFiles {
		content, err := render(f.src, d)
		if err != nil {
			return written, err
		}
		path := filepath.Join(dir, f.dst)
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", f.dst, err)
		}
		written = append(written, f.dst)
	}
	return written, nil
}

func render(name string, d Data) ([]byte, error) {
	text, err := GetInitTemplate(name)
	if err != nil {
		return nil, fmt.Errorf("loading template %s: %w", name, err)
	}
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("rendering template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

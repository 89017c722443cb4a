// Package templates holds the embedded project scaffold written by the
// init command.
package templates

import "embed"

//go:embed init
var FS embed.FS

// GetInitTemplate reads a template file from the init directory.
func GetInitTemplate(name string) (string, error) {
	data, err := FS.ReadFile("init/" + name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

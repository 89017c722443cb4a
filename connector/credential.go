package connector

import (
	"strings"

	"github.com/tenable/tenint/settings"
)

// Credential declares a credential contract a connector depends on. The
// managed host provisions credential material as environment variables
// named PREFIX_FIELD (uppercased); secret fields are redacted from job
// logs.
type Credential struct {
	Prefix      string
	Name        string
	Slug        string
	Description string
	Fields      []settings.Field
}

// EnvSecrets lists the environment variable names that hold secret
// material for this credential.
func (c Credential) EnvSecrets() []string {
	var out []string
	for _, f := range c.Fields {
		if f.Secret {
			out = append(out, strings.ToUpper(c.Prefix+"_"+f.Name))
		}
	}
	return out
}

// CredentialInfo is the wire form of a credential contract embedded in the
// connector configuration document.
type CredentialInfo struct {
	Name       string           `json:"name"`
	Slug       string           `json:"slug"`
	Prefix     string           `json:"prefix"`
	Definition *settings.Schema `json:"definition"`
}

// info builds the wire form. The credential's fields were validated as a
// settings model when the connector was constructed.
func (c Credential) info(model *settings.Model) CredentialInfo {
	return CredentialInfo{
		Name:       c.Name,
		Slug:       c.Slug,
		Prefix:     c.Prefix,
		Definition: model.Schema(),
	}
}

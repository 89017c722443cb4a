package settings

import "encoding/json"

// Property is one field's entry in a generated schema document.
type Property struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Type        string   `json:"type"`
	Default     any      `json:"default,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Format      string   `json:"format,omitempty"`
	Minimum     *float64 `json:"minimum,omitempty"`
	Maximum     *float64 `json:"maximum,omitempty"`
	Pattern     string   `json:"pattern,omitempty"`

	// Set for object-typed properties.
	Properties           map[string]*Property `json:"properties,omitempty"`
	Required             []string             `json:"required,omitempty"`
	AdditionalProperties *bool                `json:"additionalProperties,omitempty"`
}

// Schema is the structured schema document for a settings model. It is the
// contract consumed by the config command and by external configuration
// UIs. Generation is deterministic: two calls on the same model produce
// identical documents, and JSON encoding orders properties by name.
type Schema struct {
	Title                string               `json:"title"`
	Type                 string               `json:"type"`
	Properties           map[string]*Property `json:"properties"`
	Required             []string             `json:"required,omitempty"`
	AdditionalProperties bool                 `json:"additionalProperties"`
}

// MarshalIndent renders the schema document as indented JSON.
func (s *Schema) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Schema generates the schema document for the model.
func (m *Model) Schema() *Schema {
	props, required := schemaProperties(m.fields)
	return &Schema{
		Title:                m.name,
		Type:                 "object",
		Properties:           props,
		Required:             required,
		AdditionalProperties: false,
	}
}

func schemaProperties(fields []Field) (map[string]*Property, []string) {
	props := make(map[string]*Property, len(fields))
	var required []string
	for _, f := range fields {
		p := &Property{
			Title:       f.Title,
			Description: f.Description,
			Default:     f.Default,
			Minimum:     f.Min,
			Maximum:     f.Max,
			Pattern:     f.Pattern,
		}
		switch f.Type {
		case TypeEnum:
			p.Type = "string"
			p.Enum = append([]string(nil), f.Enum...)
		case TypeObject:
			p.Type = "object"
			nestedProps, nestedRequired := schemaProperties(f.Fields)
			p.Properties = nestedProps
			p.Required = nestedRequired
			closed := false
			p.AdditionalProperties = &closed
		default:
			p.Type = string(f.Type)
		}
		if f.Secret {
			p.Format = "password"
		}
		props[f.Name] = p
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return props, required
}

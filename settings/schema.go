package settings

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/randalmurphal/sculpt/provider"
)

// schemaDocument mirrors the file layout for schema generation.
type schemaDocument struct {
	Settings provider.Config `json:"vibe-sculptor_settings" jsonschema:"required"`
}

// Schema returns the JSON schema of the settings document, indented.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	s := r.Reflect(&schemaDocument{})
	s.Title = "sculpt settings"
	s.Description = "Provider configuration stored under the " + Key + " key."

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal settings schema: %w", err)
	}
	return data, nil
}

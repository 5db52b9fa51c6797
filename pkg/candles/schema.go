package candles

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// ConfigJSONSchema returns the JSON schema describing DownloadConfig, for
// front-ends that render download forms from it.
func ConfigJSONSchema() (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	schema := r.Reflect(&DownloadConfig{})

	jsonSchemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}

	return string(jsonSchemaBytes), nil
}

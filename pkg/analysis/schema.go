package analysis

import (
	"reflect"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/haivivi/beatsmith/pkg/jsontime"
)

// Schema returns the JSON schema of Document.
func Schema() (*jsonschema.Schema, error) {
	return jsonschema.For[Document](&jsonschema.ForOptions{
		TypeSchemas: map[reflect.Type]*jsonschema.Schema{
			reflect.TypeFor[jsontime.Duration](): {
				Types:       []string{"string", "number"},
				Description: "duration string such as 3m12s, or seconds",
			},
		},
	})
}

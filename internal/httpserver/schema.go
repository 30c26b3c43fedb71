package httpserver

import (
	"net/http"

	"github.com/invopop/jsonschema"
)

// wireSchemas publishes the JSON Schema of the converse wire types so
// clients can validate against the contract instead of hardcoding it.
type wireSchemas struct {
	Request  *jsonschema.Schema `json:"request"`
	Response *jsonschema.Schema `json:"response"`
	Error    *jsonschema.Schema `json:"error"`
}

func newSchemaHandler() http.HandlerFunc {
	reflector := jsonschema.Reflector{DoNotReference: true}
	schemas := wireSchemas{
		Request:  reflector.Reflect(&ConverseRequest{}),
		Response: reflector.Reflect(&ConverseResponse{}),
		Error:    reflector.Reflect(&ErrorResponse{}),
	}

	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, schemas)
	}
}

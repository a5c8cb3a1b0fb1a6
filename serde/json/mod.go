// Package json implements the context engine for the JSON encoding.
package json

import (
	"encoding/json"

	"go.entwine.ch/weblounge/serde"
)

// jsonEngine is a context engine that uses the JSON encoding.
//
// - implements serde.ContextEngine
type jsonEngine struct{}

// NewContext returns a new serde context that is using the JSON encoding.
func NewContext() serde.Context {
	return serde.NewContext(jsonEngine{})
}

// GetFormat implements serde.ContextEngine. It returns the JSON format
// identifier.
func (jsonEngine) GetFormat() serde.Format {
	return serde.FormatJSON
}

// Marshal implements serde.ContextEngine. It marshals the message using the
// JSON encoding.
func (jsonEngine) Marshal(m interface{}) ([]byte, error) {
	return json.Marshal(m)
}

// Unmarshal implements serde.ContextEngine. It unmarshals the data into the
// message using the JSON encoding.
func (jsonEngine) Unmarshal(data []byte, m interface{}) error {
	return json.Unmarshal(data, m)
}

// Package serde defines the primitives to serialize and deserialize the data
// models of the module.
//
// A message implements its serialization by looking up the format engine
// matching the context and delegating to it, so that the same model can be
// stored as JSON in the search index and as XML in the content repository.
package serde

import "golang.org/x/xerrors"

// Format is the identifier type of a format implementation.
type Format string

const (
	// FormatJSON is the identifier of the JSON format.
	FormatJSON Format = "JSON"

	// FormatXML is the identifier of the XML format.
	FormatXML Format = "XML"
)

// Message is the interface that a data model should implement to be
// serialized.
type Message interface {
	// Serialize returns the bytes of the message according to the format of
	// the context.
	Serialize(ctx Context) ([]byte, error)
}

// Factory is the interface to implement to instantiate a data model from its
// serialized form.
type Factory interface {
	// Deserialize returns the message associated to the bytes using the format
	// of the context.
	Deserialize(ctx Context, data []byte) (Message, error)
}

// FormatEngine is the interface to implement to encode and decode messages of
// a given data model for one specific format.
type FormatEngine interface {
	// Encode returns the serialized form of the message.
	Encode(ctx Context, message Message) ([]byte, error)

	// Decode returns the message instantiated from the data.
	Decode(ctx Context, data []byte) (Message, error)
}

// FormatRegistry holds the format engines of one data model indexed by
// format. The registry always returns an engine so that serialization fails
// with a meaningful error when a format has no implementation.
type FormatRegistry struct {
	store map[Format]FormatEngine
}

// NewFormatRegistry returns a new empty registry.
func NewFormatRegistry() *FormatRegistry {
	return &FormatRegistry{
		store: make(map[Format]FormatEngine),
	}
}

// Register registers the engine for the given format.
func (r *FormatRegistry) Register(name Format, engine FormatEngine) {
	r.store[name] = engine
}

// Get returns the engine associated with the format if it exists, otherwise
// an engine which always returns an error.
func (r *FormatRegistry) Get(name Format) FormatEngine {
	engine := r.store[name]
	if engine == nil {
		return missingFormat{name: name}
	}

	return engine
}

// missingFormat is a format engine returned for unknown formats.
//
// - implements serde.FormatEngine
type missingFormat struct {
	name Format
}

// Encode implements serde.FormatEngine. It always returns an error.
func (f missingFormat) Encode(Context, Message) ([]byte, error) {
	return nil, xerrors.Errorf("format '%s' is not implemented", f.name)
}

// Decode implements serde.FormatEngine. It always returns an error.
func (f missingFormat) Decode(Context, []byte) (Message, error) {
	return nil, xerrors.Errorf("format '%s' is not implemented", f.name)
}

// Package fake provides fake implementations for interfaces commonly used in
// the repository.
// The implementations offer configuration to return errors when it is needed
// by the unit test and it is also possible to record the calls of functions
// of an object in some cases.
package fake

import (
	"go.entwine.ch/weblounge/security"
	"go.entwine.ch/weblounge/serde"
	"golang.org/x/xerrors"
)

var fakeErr = xerrors.New("fake error")

// GetError returns the error returned by the misbehaving fakes, so that the
// tests can assert against the exact message.
func GetError() error {
	return fakeErr
}

// Call is a tool to keep track of a function calls.
type Call struct {
	calls [][]interface{}
}

// Get returns the nth call ith parameter.
func (c *Call) Get(n, i int) interface{} {
	return c.calls[n][i]
}

// Len returns the number of calls.
func (c *Call) Len() int {
	return len(c.calls)
}

// Add adds a call to the list.
func (c *Call) Add(args ...interface{}) {
	c.calls = append(c.calls, args)
}

// Site is a fake implementation of security.Site.
type Site struct {
	ID string
}

// NewSite returns a fake site with the identifier.
func NewSite(id string) Site {
	return Site{ID: id}
}

// Identifier implements security.Site.
func (s Site) Identifier() string {
	return s.ID
}

// MessageFormat is a format engine producing a constant payload. It can be
// set up to fail on encoding or decoding.
type MessageFormat struct {
	err error
}

// NewBadFormat returns a format engine always failing.
func NewBadFormat() MessageFormat {
	return MessageFormat{err: fakeErr}
}

// Encode implements serde.FormatEngine.
func (f MessageFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	return []byte("fake format"), f.err
}

// Decode implements serde.FormatEngine.
func (f MessageFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	return nil, f.err
}

// ContextEngine is a fake implementation of a serialization engine. The
// marshaling can be set up to fail.
type ContextEngine struct {
	format serde.Format
	err    error
}

// NewContext returns a fake context.
func NewContext() serde.Context {
	return serde.NewContext(ContextEngine{format: "fake"})
}

// NewBadContext returns a fake context that fails to marshal and unmarshal.
func NewBadContext() serde.Context {
	return serde.NewContext(ContextEngine{format: "bad", err: fakeErr})
}

// NewContextWithFormat returns a fake context using the given format so that
// registered engines can be exercised.
func NewContextWithFormat(f serde.Format) serde.Context {
	return serde.NewContext(ContextEngine{format: f})
}

// GetFormat implements serde.ContextEngine.
func (ctx ContextEngine) GetFormat() serde.Format {
	return ctx.format
}

// Marshal implements serde.ContextEngine.
func (ctx ContextEngine) Marshal(m interface{}) ([]byte, error) {
	return []byte("fake"), ctx.err
}

// Unmarshal implements serde.ContextEngine.
func (ctx ContextEngine) Unmarshal(data []byte, m interface{}) error {
	return ctx.err
}

// Observer is a fake implementation of security.Observer recording the
// events it receives.
type Observer struct {
	Events []security.Event
}

// NotifyCallback implements security.Observer.
func (o *Observer) NotifyCallback(event security.Event) {
	o.Events = append(o.Events, event)
}

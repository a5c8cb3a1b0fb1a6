// Package search projects access control lists into the fields of a search
// index, so that queries can be filtered down to the documents a caller is
// permitted to see without loading each candidate.
//
// Documents carry one field per action holding the authority identifiers
// allowed to perform it. A query then only needs to match one of the caller
// authorities against the field of the requested action.
package search

import (
	"go.entwine.ch/weblounge/serde"
	"golang.org/x/xerrors"
)

// Filter is a query clause restricting the documents returned by the index.
type Filter interface {
	// Render returns the generic document of the clause so that it can be
	// embedded in a bigger query before encoding.
	Render() interface{}

	// Serialize encodes the clause with the format of the context.
	Serialize(ctx serde.Context) ([]byte, error)
}

// TermsFilter matches the documents where the field holds at least one of
// the values.
//
// - implements search.Filter
type TermsFilter struct {
	Field  string
	Values []string
}

// NewTermsFilter returns a filter matching the field against the values.
func NewTermsFilter(field string, values ...string) TermsFilter {
	return TermsFilter{
		Field:  field,
		Values: values,
	}
}

// Render implements search.Filter.
func (f TermsFilter) Render() interface{} {
	return map[string]interface{}{
		"terms": map[string]interface{}{
			f.Field: f.Values,
		},
	}
}

// Serialize implements search.Filter.
func (f TermsFilter) Serialize(ctx serde.Context) ([]byte, error) {
	data, err := ctx.Marshal(f.Render())
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal terms filter: %v", err)
	}

	return data, nil
}

// AndFilter matches the documents matching every inner filter.
//
// - implements search.Filter
type AndFilter struct {
	Filters []Filter
}

// NewAndFilter returns a filter matching the conjunction of the filters.
func NewAndFilter(filters ...Filter) AndFilter {
	return AndFilter{Filters: filters}
}

// Render implements search.Filter.
func (f AndFilter) Render() interface{} {
	must := make([]interface{}, len(f.Filters))
	for i, filter := range f.Filters {
		must[i] = filter.Render()
	}

	return map[string]interface{}{
		"bool": map[string]interface{}{
			"must": must,
		},
	}
}

// Serialize implements search.Filter.
func (f AndFilter) Serialize(ctx serde.Context) ([]byte, error) {
	data, err := ctx.Marshal(f.Render())
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal and filter: %v", err)
	}

	return data, nil
}

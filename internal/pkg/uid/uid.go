// Package uid provides small ID generation helpers.
package uid

// StringID generates string identifiers (UUIDs, correlation IDs).
type StringID interface {
	Generate() string
}

// NumberID generates int64 identifiers suitable for database primary keys.
type NumberID interface {
	Generate() int64
}

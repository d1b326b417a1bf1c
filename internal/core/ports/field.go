package ports

// Field carries one value of a partial payload. Present reports whether the
// caller supplied the key at all; Null reports an explicit null. Mistyped
// marks a key whose JSON value could not be decoded into T; it is reported
// by validation, not by the decoder.
type Field[T any] struct {
	Present  bool
	Null     bool
	Mistyped bool
	Value    T
}

// Set returns a present, non-null field holding v.
func Set[T any](v T) Field[T] {
	return Field[T]{Present: true, Value: v}
}

// Null returns a present field explicitly set to null.
func Null[T any]() Field[T] {
	return Field[T]{Present: true, Null: true}
}

// Mistyped returns a present field whose value had the wrong JSON type.
func Mistyped[T any]() Field[T] {
	return Field[T]{Present: true, Mistyped: true}
}

// HasValue reports whether the field was supplied with a usable non-null value.
func (f Field[T]) HasValue() bool {
	return f.Present && !f.Null && !f.Mistyped
}

// Ptr returns nil for null or absent fields, otherwise a pointer to a copy of the value.
func (f Field[T]) Ptr() *T {
	if !f.HasValue() {
		return nil
	}
	v := f.Value
	return &v
}

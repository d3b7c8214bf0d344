package sig

import "fmt"

// ============================================================
// Struct Builder
// ============================================================

// StructBuilder assembles a structure signature field by field, for records
// whose shape is only known at run time.
type StructBuilder struct {
	fields []Signature
	err    error
}

// NewStructBuilder creates an empty builder.
func NewStructBuilder() *StructBuilder {
	return &StructBuilder{}
}

// Add appends a field. Unit fields are dropped; an invalid field is
// reported by Build.
func (b *StructBuilder) Add(s Signature) *StructBuilder {
	switch {
	case b.err != nil, s.IsUnit():
	case !s.IsValid():
		b.err = fmt.Errorf("%w: field %d has no signature", ErrInvalidSignature, len(b.fields))
	default:
		b.fields = append(b.fields, s)
	}
	return b
}

// AddField appends the signature of T. An unsupported T is reported by Build.
func AddField[T any](b *StructBuilder) *StructBuilder {
	if b.err != nil {
		return b
	}
	s, err := SignatureOf[T]()
	if err != nil {
		b.err = err
		return b
	}
	return b.Add(s)
}

// Len returns the number of fields added so far.
func (b *StructBuilder) Len() int {
	return len(b.fields)
}

// Build returns the structure. With no fields it returns Unit.
// The builder may be reused; each call shares nothing with the previous one.
func (b *StructBuilder) Build() (Signature, error) {
	if b.err != nil {
		return Signature{}, b.err
	}
	return Struct(b.fields...), nil
}

// Signature implements DynamicType, ignoring any build error.
func (b *StructBuilder) Signature() Signature {
	s, _ := b.Build()
	return s
}

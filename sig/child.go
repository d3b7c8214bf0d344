package sig

import "iter"

// Child references the nested signature of a container.
//
// A child is either static, pointing into storage that lives for the whole
// program (the type registry), or shared, pointing at a heap node owned
// jointly by every parent that holds it. Consumers only see the Signature.
type Child interface {
	// Signature returns a read-only view of the referenced node.
	Signature() Signature
	// Static reports whether the node lives in program-lifetime storage.
	Static() bool
}

type staticChild struct {
	sig *Signature
}

func (c staticChild) Signature() Signature { return *c.sig }
func (c staticChild) Static() bool         { return true }

type sharedChild struct {
	sig *Signature
}

func (c sharedChild) Signature() Signature { return *c.sig }
func (c sharedChild) Static() bool         { return false }

// StaticChild wraps a pointer into program-lifetime storage.
// The pointed-to signature must never change. It panics on nil.
func StaticChild(sig *Signature) Child {
	if sig == nil {
		panic("sig: nil static child")
	}
	return staticChild{sig: sig}
}

// SharedChild moves sig onto the heap. Every copy of the returned child,
// and of any parent holding it, refers to the same node.
func SharedChild(sig Signature) Child {
	sig.bare = false
	return sharedChild{sig: &sig}
}

// Fields is the ordered field sequence of a structure.
type Fields interface {
	// All yields the fields in positional order.
	All() iter.Seq[Signature]
	// Len returns the number of fields.
	Len() int
	// Static reports whether the fields live in program-lifetime storage.
	Static() bool
}

type staticFields []*Signature

func (f staticFields) All() iter.Seq[Signature] {
	return func(yield func(Signature) bool) {
		for _, s := range f {
			if !yield(*s) {
				return
			}
		}
	}
}

func (f staticFields) Len() int     { return len(f) }
func (f staticFields) Static() bool { return true }

type sharedFields struct {
	fields []Signature
}

func (f *sharedFields) All() iter.Seq[Signature] {
	return func(yield func(Signature) bool) {
		for _, s := range f.fields {
			if !yield(s) {
				return
			}
		}
	}
}

func (f *sharedFields) Len() int     { return len(f.fields) }
func (f *sharedFields) Static() bool { return false }

// StaticFields wraps pointers into program-lifetime storage. Unit fields
// are dropped; nil or invalid fields panic.
func StaticFields(fields []*Signature) Fields {
	kept := make(staticFields, 0, len(fields))
	for _, f := range fields {
		if f == nil {
			panic("sig: nil struct field")
		}
		if f.kind == KindUnit {
			continue
		}
		mustComplete(*f, "struct field")
		kept = append(kept, f)
	}
	return kept
}

// SharedFields copies fields once into a shared backing array; later copies
// of the container share it. Unit fields are dropped; invalid fields panic.
func SharedFields(fields []Signature) Fields {
	owned := make([]Signature, 0, len(fields))
	for _, f := range fields {
		if f.kind == KindUnit {
			continue
		}
		mustComplete(f, "struct field")
		f.bare = false
		owned = append(owned, f)
	}
	return &sharedFields{fields: owned}
}

// fieldAt returns the i-th field. Callers check bounds.
func fieldAt(f Fields, i int) Signature {
	switch f := f.(type) {
	case staticFields:
		return *f[i]
	case *sharedFields:
		return f.fields[i]
	}
	n := 0
	for s := range f.All() {
		if n == i {
			return s
		}
		n++
	}
	return Signature{}
}

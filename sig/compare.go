package sig

// Equal reports whether a and b describe the same type, regardless of
// whether their children are static or shared. Equal signatures have
// identical wire forms, except that a top-level sequence such as "ii"
// equals the structure "(ii)" it stands for.
func Equal(a, b Signature) bool {
	return Compare(a, b) == 0
}

// Equal reports whether s and other describe the same type.
func (s Signature) Equal(other Signature) bool {
	return Compare(s, other) == 0
}

// Compare orders signatures structurally and returns -1, 0 or +1. It
// ignores whether a structure was written as a top-level sequence.
//
// Nodes are compared by kind first, then by their children in order: the
// element of an array or maybe, key then value of a dict, fields of a struct
// with a shorter prefix sorting first. The first difference decides.
func Compare(a, b Signature) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}

	switch a.kind {
	case KindArray, KindMaybe:
		if sameChild(a.elem, b.elem) {
			return 0
		}
		return Compare(a.elem.Signature(), b.elem.Signature())

	case KindDict:
		if c := compareChild(a.elem, b.elem); c != 0 {
			return c
		}
		return compareChild(a.value, b.value)

	case KindStruct:
		return compareFields(a.fields, b.fields)
	}

	return 0
}

func compareChild(a, b Child) int {
	if sameChild(a, b) {
		return 0
	}
	return Compare(a.Signature(), b.Signature())
}

// sameChild short-circuits comparison of a node against itself.
func sameChild(a, b Child) bool {
	switch a := a.(type) {
	case staticChild:
		b, ok := b.(staticChild)
		return ok && a.sig == b.sig
	case sharedChild:
		b, ok := b.(sharedChild)
		return ok && a.sig == b.sig
	}
	return false
}

func compareFields(a, b Fields) int {
	if sa, ok := a.(*sharedFields); ok {
		if sb, ok := b.(*sharedFields); ok && sa == sb {
			return 0
		}
	}

	na, nb := a.Len(), b.Len()
	for i := 0; i < na && i < nb; i++ {
		if c := Compare(fieldAt(a, i), fieldAt(b, i)); c != 0 {
			return c
		}
	}

	switch {
	case na < nb:
		return -1
	case na > nb:
		return 1
	}
	return 0
}

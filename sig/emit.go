package sig

import "strings"

// ============================================================
// Wire Form Emission
// ============================================================

// String returns the wire form of s. Unit and the invalid zero value both
// format to the empty string. A structure parsed from a top-level sequence
// formats without its parentheses, as it was written.
func (s Signature) String() string {
	n := s.Len()
	if n == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(n)
	if s.bare {
		writeFields(&sb, s.fields)
	} else {
		writeSignature(&sb, s)
	}
	return sb.String()
}

// Format returns the wire form of s.
func Format(s Signature) string {
	return s.String()
}

// AppendTo appends the wire form of s to b.
func (s Signature) AppendTo(b []byte) []byte {
	if s.bare {
		for f := range s.fields.All() {
			b = appendSignature(b, f)
		}
		return b
	}
	return appendSignature(b, s)
}

// Len returns the length of the wire form in bytes.
func (s Signature) Len() int {
	n := wireLen(s)
	if s.bare {
		n -= 2
	}
	return n
}

func appendSignature(b []byte, s Signature) []byte {
	switch s.kind {
	case KindInvalid, KindUnit:
		return b
	case KindArray:
		return appendSignature(append(b, 'a'), s.elem.Signature())
	case KindMaybe:
		return appendSignature(append(b, 'm'), s.elem.Signature())
	case KindDict:
		b = append(b, 'a', '{')
		b = appendSignature(b, s.elem.Signature())
		b = appendSignature(b, s.value.Signature())
		return append(b, '}')
	case KindStruct:
		b = append(b, '(')
		for f := range s.fields.All() {
			b = appendSignature(b, f)
		}
		return append(b, ')')
	default:
		return append(b, s.kind.Code())
	}
}

func wireLen(s Signature) int {
	switch s.kind {
	case KindInvalid, KindUnit:
		return 0
	case KindArray, KindMaybe:
		return 1 + wireLen(s.elem.Signature())
	case KindDict:
		return 3 + wireLen(s.elem.Signature()) + wireLen(s.value.Signature())
	case KindStruct:
		n := 2
		for f := range s.fields.All() {
			n += wireLen(f)
		}
		return n
	default:
		return 1
	}
}

func writeSignature(sb *strings.Builder, s Signature) {
	switch s.kind {
	case KindInvalid, KindUnit:
	case KindArray:
		sb.WriteByte('a')
		writeSignature(sb, s.elem.Signature())
	case KindMaybe:
		sb.WriteByte('m')
		writeSignature(sb, s.elem.Signature())
	case KindDict:
		sb.WriteString("a{")
		writeSignature(sb, s.elem.Signature())
		writeSignature(sb, s.value.Signature())
		sb.WriteByte('}')
	case KindStruct:
		sb.WriteByte('(')
		writeFields(sb, s.fields)
		sb.WriteByte(')')
	default:
		sb.WriteByte(s.kind.Code())
	}
}

func writeFields(sb *strings.Builder, fields Fields) {
	for f := range fields.All() {
		writeSignature(sb, f)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Signature) MarshalText() ([]byte, error) {
	return s.AppendTo(make([]byte, 0, s.Len())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Maybe types are
// accepted so that every formattable signature can be read back.
func (s *Signature) UnmarshalText(text []byte) error {
	parsed, err := ParseWithOptions(string(text), ParseOptions{Maybe: true})
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

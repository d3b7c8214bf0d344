package sig

import "fmt"

// Kind identifies the variant of a signature node.
type Kind uint8

const (
	KindInvalid Kind = iota // zero value: no signature at all
	KindUnit                // zero values, formats to ""

	// Basic types
	KindByte       // y
	KindBool       // b
	KindInt16      // n
	KindUint16     // q
	KindInt32      // i
	KindUint32     // u
	KindInt64      // x
	KindUint64     // t
	KindDouble     // d
	KindString     // s
	KindSignature  // g
	KindObjectPath // o
	KindVariant    // v
	KindUnixFD     // h, only where fd passing exists

	// Container types
	KindArray  // a<elem>
	KindDict   // a{<key><value>}
	KindStruct // (<field>+)
	KindMaybe  // m<elem>, GVariant extension
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnit:
		return "unit"
	case KindByte:
		return "byte"
	case KindBool:
		return "bool"
	case KindInt16:
		return "int16"
	case KindUint16:
		return "uint16"
	case KindInt32:
		return "int32"
	case KindUint32:
		return "uint32"
	case KindInt64:
		return "int64"
	case KindUint64:
		return "uint64"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindSignature:
		return "signature"
	case KindObjectPath:
		return "objectpath"
	case KindVariant:
		return "variant"
	case KindUnixFD:
		return "unixfd"
	case KindArray:
		return "array"
	case KindDict:
		return "dict"
	case KindStruct:
		return "struct"
	case KindMaybe:
		return "maybe"
	default:
		return "unknown"
	}
}

// basicCodes maps basic kinds to their one-character wire code.
var basicCodes = [...]byte{
	KindByte:       'y',
	KindBool:       'b',
	KindInt16:      'n',
	KindUint16:     'q',
	KindInt32:      'i',
	KindUint32:     'u',
	KindInt64:      'x',
	KindUint64:     't',
	KindDouble:     'd',
	KindString:     's',
	KindSignature:  'g',
	KindObjectPath: 'o',
	KindVariant:    'v',
	KindUnixFD:     'h',
}

// Code returns the wire code of a basic kind, or 0 for anything else.
func (k Kind) Code() byte {
	if int(k) < len(basicCodes) {
		return basicCodes[k]
	}
	return 0
}

// IsBasic reports whether k is a scalar type.
func (k Kind) IsBasic() bool {
	return k >= KindByte && k <= KindUnixFD
}

// IsContainer reports whether k holds child signatures.
func (k Kind) IsContainer() bool {
	return k >= KindArray && k <= KindMaybe
}

// kindForCode is the inverse of basicCodes.
func kindForCode(c byte) (Kind, bool) {
	switch c {
	case 'y':
		return KindByte, true
	case 'b':
		return KindBool, true
	case 'n':
		return KindInt16, true
	case 'q':
		return KindUint16, true
	case 'i':
		return KindInt32, true
	case 'u':
		return KindUint32, true
	case 'x':
		return KindInt64, true
	case 't':
		return KindUint64, true
	case 'd':
		return KindDouble, true
	case 's':
		return KindString, true
	case 'g':
		return KindSignature, true
	case 'o':
		return KindObjectPath, true
	case 'v':
		return KindVariant, true
	case 'h':
		if unixFDSupported {
			return KindUnixFD, true
		}
	}
	return KindInvalid, false
}

// Signature is one node of a type signature tree.
//
// A Signature is an immutable value: copying it is shallow and the copy
// shares its children with the original. The zero Signature is invalid and
// stands for "no signature"; a signature describing zero values is Unit.
type Signature struct {
	kind Kind

	// Array and Maybe use elem; Dict uses elem as key plus value.
	elem  Child
	value Child

	// Struct only.
	fields Fields

	// bare marks a structure parsed from a top-level sequence; it formats
	// without parentheses and compares like any other structure.
	bare bool
}

// ============================================================
// Constructors
// ============================================================

// Unit returns the signature of zero values.
func Unit() Signature { return Signature{kind: KindUnit} }

// Byte returns the "y" signature.
func Byte() Signature { return Signature{kind: KindByte} }

// Bool returns the "b" signature.
func Bool() Signature { return Signature{kind: KindBool} }

// Int16 returns the "n" signature.
func Int16() Signature { return Signature{kind: KindInt16} }

// Uint16 returns the "q" signature.
func Uint16() Signature { return Signature{kind: KindUint16} }

// Int32 returns the "i" signature.
func Int32() Signature { return Signature{kind: KindInt32} }

// Uint32 returns the "u" signature.
func Uint32() Signature { return Signature{kind: KindUint32} }

// Int64 returns the "x" signature.
func Int64() Signature { return Signature{kind: KindInt64} }

// Uint64 returns the "t" signature.
func Uint64() Signature { return Signature{kind: KindUint64} }

// Double returns the "d" signature.
func Double() Signature { return Signature{kind: KindDouble} }

// Str returns the "s" signature.
func Str() Signature { return Signature{kind: KindString} }

// Sig returns the "g" signature (a signature string as a value).
func Sig() Signature { return Signature{kind: KindSignature} }

// ObjectPath returns the "o" signature.
func ObjectPath() Signature { return Signature{kind: KindObjectPath} }

// Variant returns the "v" signature.
func Variant() Signature { return Signature{kind: KindVariant} }

// Array returns a(elem). It panics if elem is Unit or invalid, which have
// no wire form as a child.
func Array(elem Signature) Signature {
	return Signature{kind: KindArray, elem: SharedChild(mustComplete(elem, "array element"))}
}

// Dict returns a{key value}. It panics if key or value is Unit or invalid.
func Dict(key, value Signature) Signature {
	return Signature{
		kind:  KindDict,
		elem:  SharedChild(mustComplete(key, "dict key")),
		value: SharedChild(mustComplete(value, "dict value")),
	}
}

// Struct returns a structure of the given fields in order. Unit fields are
// dropped; with no fields left it returns Unit, mirroring the parser.
// It panics on an invalid field.
func Struct(fields ...Signature) Signature {
	return StructOf(SharedFields(fields))
}

// Maybe returns m(elem). Only parseable with ParseOptions.Maybe set.
// It panics if elem is Unit or invalid.
func Maybe(elem Signature) Signature {
	return Signature{kind: KindMaybe, elem: SharedChild(mustComplete(elem, "maybe element"))}
}

// ArrayOf builds an array around an existing child reference without copying it.
func ArrayOf(elem Child) Signature {
	return Signature{kind: KindArray, elem: mustChild(elem, "array element")}
}

// DictOf builds a dict around existing child references.
func DictOf(key, value Child) Signature {
	return Signature{kind: KindDict, elem: mustChild(key, "dict key"), value: mustChild(value, "dict value")}
}

// StructOf builds a structure around an existing fields container.
func StructOf(fields Fields) Signature {
	if fields == nil || fields.Len() == 0 {
		return Unit()
	}
	return Signature{kind: KindStruct, fields: fields}
}

// MaybeOf builds a maybe around an existing child reference.
func MaybeOf(elem Child) Signature {
	return Signature{kind: KindMaybe, elem: mustChild(elem, "maybe element")}
}

// isComplete reports whether s can stand as a child: it has a non-empty
// wire form.
func isComplete(s Signature) bool {
	return s.kind != KindInvalid && s.kind != KindUnit
}

func mustComplete(s Signature, what string) Signature {
	if !isComplete(s) {
		panic(fmt.Sprintf("sig: %s must be a complete type, got %s", what, s.kind))
	}
	return s
}

func mustChild(c Child, what string) Child {
	if c == nil {
		panic(fmt.Sprintf("sig: nil %s", what))
	}
	mustComplete(c.Signature(), what)
	return c
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the node variant.
func (s Signature) Kind() Kind {
	return s.kind
}

// IsValid reports whether s is a signature at all. The zero value is not.
func (s Signature) IsValid() bool {
	return s.kind != KindInvalid
}

// IsUnit reports whether s describes zero values.
func (s Signature) IsUnit() bool {
	return s.kind == KindUnit
}

// IsSequence reports whether s is a structure parsed from a top-level
// sequence of two or more types, such as "ii".
func (s Signature) IsSequence() bool {
	return s.bare
}

// Elem returns the child of an Array or Maybe.
func (s Signature) Elem() (Signature, error) {
	if s.kind != KindArray && s.kind != KindMaybe {
		return Signature{}, fmt.Errorf("sig: expected array or maybe, got %s", s.kind)
	}
	return s.elem.Signature(), nil
}

// Key returns the key of a Dict.
func (s Signature) Key() (Signature, error) {
	if s.kind != KindDict {
		return Signature{}, fmt.Errorf("sig: expected dict, got %s", s.kind)
	}
	return s.elem.Signature(), nil
}

// Value returns the value of a Dict.
func (s Signature) Value() (Signature, error) {
	if s.kind != KindDict {
		return Signature{}, fmt.Errorf("sig: expected dict, got %s", s.kind)
	}
	return s.value.Signature(), nil
}

// Fields returns the fields of a Struct.
func (s Signature) Fields() (Fields, error) {
	if s.kind != KindStruct {
		return nil, fmt.Errorf("sig: expected struct, got %s", s.kind)
	}
	return s.fields, nil
}

// NumFields returns the number of struct fields, 0 for other kinds.
func (s Signature) NumFields() int {
	if s.kind != KindStruct || s.fields == nil {
		return 0
	}
	return s.fields.Len()
}

// Field returns the i-th struct field.
func (s Signature) Field(i int) (Signature, error) {
	n := s.NumFields()
	if s.kind != KindStruct {
		return Signature{}, fmt.Errorf("sig: expected struct, got %s", s.kind)
	}
	if i < 0 || i >= n {
		return Signature{}, fmt.Errorf("sig: field %d out of bounds (len=%d)", i, n)
	}
	return fieldAt(s.fields, i), nil
}

// ElemChild returns the raw child reference of an Array, Maybe or the key
// of a Dict, nil otherwise.
func (s Signature) ElemChild() Child {
	return s.elem
}

// ValueChild returns the raw value reference of a Dict, nil otherwise.
func (s Signature) ValueChild() Child {
	return s.value
}

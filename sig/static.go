package sig

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/godbus/dbus/v5"
)

// ErrUnsupportedType is returned when a Go type has no signature mapping.
var ErrUnsupportedType = errors.New("sig: unsupported type")

// Type is implemented by Go types that carry a fixed signature. The method
// is called once, on the zero value, and the result is kept for the life of
// the process.
type Type interface {
	DBusSignature() Signature
}

// DynamicType is implemented by values whose signature depends on their
// content, such as a runtime-assembled record.
type DynamicType interface {
	Signature() Signature
}

// ============================================================
// Type Registry
// ============================================================

// registry maps reflect.Type to *Signature. Entries are never removed, so
// containers built from them hold static children.
var registry sync.Map

var staticBasics = [...]Signature{
	KindUnit:       {kind: KindUnit},
	KindByte:       {kind: KindByte},
	KindBool:       {kind: KindBool},
	KindInt16:      {kind: KindInt16},
	KindUint16:     {kind: KindUint16},
	KindInt32:      {kind: KindInt32},
	KindUint32:     {kind: KindUint32},
	KindInt64:      {kind: KindInt64},
	KindUint64:     {kind: KindUint64},
	KindDouble:     {kind: KindDouble},
	KindString:     {kind: KindString},
	KindSignature:  {kind: KindSignature},
	KindObjectPath: {kind: KindObjectPath},
	KindVariant:    {kind: KindVariant},
	KindUnixFD:     {kind: KindUnixFD},
}

var (
	typeIface       = reflect.TypeFor[Type]()
	objectPathType  = reflect.TypeFor[dbus.ObjectPath]()
	signatureType   = reflect.TypeFor[dbus.Signature]()
	variantType     = reflect.TypeFor[dbus.Variant]()
	unixFDType      = reflect.TypeFor[dbus.UnixFD]()
	unixFDIndexType = reflect.TypeFor[dbus.UnixFDIndex]()
)

// Register sets the signature of T. It must run before the first lookup of
// T or of any type composed from T; earlier compositions keep what they saw.
// It panics if s is invalid.
func Register[T any](s Signature) {
	if !s.IsValid() {
		panic(fmt.Sprintf("sig: register %s: invalid signature", reflect.TypeFor[T]()))
	}
	s.bare = false
	registry.Store(reflect.TypeFor[T](), &s)
}

// SignatureOf returns the signature of T. The first call for a type builds
// and memoizes it; later calls do not allocate.
func SignatureOf[T any]() (Signature, error) {
	return SignatureOfType(reflect.TypeFor[T]())
}

// MustSignatureOf is like SignatureOf but panics on unsupported types.
func MustSignatureOf[T any]() Signature {
	s, err := SignatureOf[T]()
	if err != nil {
		panic(err)
	}
	return s
}

// SignatureOfType returns the signature of t.
func SignatureOfType(t reflect.Type) (Signature, error) {
	if t == nil {
		return Signature{}, fmt.Errorf("%w: nil type", ErrUnsupportedType)
	}
	p, err := lookup(t, nil)
	if err != nil {
		return Signature{}, err
	}
	return *p, nil
}

// SignatureOfValue returns the signature of v, asking v itself first when
// it implements DynamicType.
func SignatureOfValue(v any) (Signature, error) {
	if d, ok := v.(DynamicType); ok {
		s := d.Signature()
		if !s.IsValid() {
			return Signature{}, fmt.Errorf("%w: %T reported no signature", ErrUnsupportedType, v)
		}
		return s, nil
	}
	if v == nil {
		return Signature{}, fmt.Errorf("%w: nil value", ErrUnsupportedType)
	}
	return SignatureOfType(reflect.TypeOf(v))
}

// lookup returns the registry entry for t, building it on a miss. visiting
// holds the types currently being built, to reject recursive types.
func lookup(t reflect.Type, visiting map[reflect.Type]bool) (*Signature, error) {
	if v, ok := registry.Load(t); ok {
		return v.(*Signature), nil
	}

	if visiting[t] {
		return nil, fmt.Errorf("%w: recursive type %s", ErrUnsupportedType, t)
	}
	if visiting == nil {
		visiting = make(map[reflect.Type]bool)
	}
	visiting[t] = true
	defer delete(visiting, t)

	p, err := build(t, visiting)
	if err != nil {
		return nil, err
	}
	actual, _ := registry.LoadOrStore(t, p)
	return actual.(*Signature), nil
}

func build(t reflect.Type, visiting map[reflect.Type]bool) (*Signature, error) {
	if s, ok := ownSignature(t); ok {
		if !s.IsValid() {
			return nil, fmt.Errorf("%w: %s reported no signature", ErrUnsupportedType, t)
		}
		s.bare = false
		return &s, nil
	}

	switch t {
	case objectPathType:
		return &staticBasics[KindObjectPath], nil
	case signatureType:
		return &staticBasics[KindSignature], nil
	case variantType:
		return &staticBasics[KindVariant], nil
	case unixFDType, unixFDIndexType:
		if !unixFDSupported {
			return nil, fmt.Errorf("%w: %s needs unix fd passing", ErrUnsupportedType, t)
		}
		return &staticBasics[KindUnixFD], nil
	}

	switch t.Kind() {
	case reflect.Uint8:
		return &staticBasics[KindByte], nil
	case reflect.Bool:
		return &staticBasics[KindBool], nil
	case reflect.Int16:
		return &staticBasics[KindInt16], nil
	case reflect.Uint16:
		return &staticBasics[KindUint16], nil
	case reflect.Int, reflect.Int32:
		return &staticBasics[KindInt32], nil
	case reflect.Uint, reflect.Uint32:
		return &staticBasics[KindUint32], nil
	case reflect.Int64:
		return &staticBasics[KindInt64], nil
	case reflect.Uint64:
		return &staticBasics[KindUint64], nil
	case reflect.Float64:
		return &staticBasics[KindDouble], nil
	case reflect.String:
		return &staticBasics[KindString], nil
	case reflect.Interface:
		return &staticBasics[KindVariant], nil

	case reflect.Pointer:
		// A reference has the signature of what it points to.
		return lookup(t.Elem(), visiting)

	case reflect.Slice, reflect.Array:
		elem, err := lookup(t.Elem(), visiting)
		if err != nil {
			return nil, err
		}
		if !isComplete(*elem) {
			return nil, fmt.Errorf("%w: element %s has no wire form", ErrUnsupportedType, t.Elem())
		}
		return &Signature{kind: KindArray, elem: StaticChild(elem)}, nil

	case reflect.Map:
		key, err := lookup(t.Key(), visiting)
		if err != nil {
			return nil, err
		}
		if !key.kind.IsBasic() || key.kind == KindVariant {
			return nil, fmt.Errorf("%w: map key %s is not a basic type", ErrUnsupportedType, t.Key())
		}
		value, err := lookup(t.Elem(), visiting)
		if err != nil {
			return nil, err
		}
		if !isComplete(*value) {
			return nil, fmt.Errorf("%w: map value %s has no wire form", ErrUnsupportedType, t.Elem())
		}
		return &Signature{kind: KindDict, elem: StaticChild(key), value: StaticChild(value)}, nil

	case reflect.Struct:
		var fields []*Signature
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() || f.Tag.Get("dbus") == "-" {
				continue
			}
			p, err := lookup(f.Type, visiting)
			if err != nil {
				return nil, fmt.Errorf("field %s.%s: %w", t, f.Name, err)
			}
			// Unit fields occupy nothing on the wire.
			if p.kind == KindUnit {
				continue
			}
			fields = append(fields, p)
		}
		if len(fields) == 0 {
			return &staticBasics[KindUnit], nil
		}
		return &Signature{kind: KindStruct, fields: StaticFields(fields)}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
}

// ownSignature asks a Type implementation for its signature.
func ownSignature(t reflect.Type) (Signature, bool) {
	switch {
	case t.Kind() == reflect.Interface:
		return Signature{}, false
	case t.Implements(typeIface):
		if t.Kind() == reflect.Pointer {
			return reflect.New(t.Elem()).Interface().(Type).DBusSignature(), true
		}
		return reflect.Zero(t).Interface().(Type).DBusSignature(), true
	case t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(typeIface):
		return reflect.New(t).Interface().(Type).DBusSignature(), true
	}
	return Signature{}, false
}

package sig

import (
	"reflect"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureOfBasics(t *testing.T) {
	tests := []struct {
		typ  reflect.Type
		want string
	}{
		{reflect.TypeFor[uint8](), "y"},
		{reflect.TypeFor[bool](), "b"},
		{reflect.TypeFor[int16](), "n"},
		{reflect.TypeFor[uint16](), "q"},
		{reflect.TypeFor[int32](), "i"},
		{reflect.TypeFor[int](), "i"},
		{reflect.TypeFor[uint32](), "u"},
		{reflect.TypeFor[uint](), "u"},
		{reflect.TypeFor[int64](), "x"},
		{reflect.TypeFor[uint64](), "t"},
		{reflect.TypeFor[float64](), "d"},
		{reflect.TypeFor[string](), "s"},
		{reflect.TypeFor[dbus.Signature](), "g"},
		{reflect.TypeFor[dbus.ObjectPath](), "o"},
		{reflect.TypeFor[dbus.Variant](), "v"},
		{reflect.TypeFor[any](), "v"},
		{reflect.TypeFor[struct{}](), ""},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			s, err := SignatureOfType(tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.String())
		})
	}
}

func TestSignatureOfTuple(t *testing.T) {
	s, err := SignatureOf[tuple4]()
	require.NoError(t, err)
	assert.Equal(t, "(isaaib)", s.String())
	assert.Equal(t, KindStruct, s.Kind())
	assert.False(t, s.IsSequence())

	fields, err := s.Fields()
	require.NoError(t, err)
	assert.True(t, fields.Static())
	assert.Equal(t, 4, fields.Len())
}

func TestSignatureOfComposition(t *testing.T) {
	type named int32
	type withSkipped struct {
		A      string
		hidden int64
		B      []byte `dbus:"-"`
		C      *uint16
	}
	type single struct{ V float64 }

	tests := []struct {
		name string
		typ  reflect.Type
		want string
	}{
		{"pointer", reflect.TypeFor[*int32](), "i"},
		{"pointer to pointer", reflect.TypeFor[**string](), "s"},
		{"named", reflect.TypeFor[named](), "i"},
		{"slice", reflect.TypeFor[[]string](), "as"},
		{"array", reflect.TypeFor[[4]byte](), "ay"},
		{"nested slice", reflect.TypeFor[[][]int32](), "aai"},
		{"map", reflect.TypeFor[map[string]dbus.Variant](), "a{sv}"},
		{"nested map", reflect.TypeFor[map[string]map[string]any](), "a{sa{sv}}"},
		{"slice of struct", reflect.TypeFor[[]tuple4](), "a(isaaib)"},
		{"skipped fields", reflect.TypeFor[withSkipped](), "(sq)"},
		{"single field stays struct", reflect.TypeFor[single](), "(d)"},
		{"pointer to struct", reflect.TypeFor[*single](), "(d)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := SignatureOfType(tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.String())

			parsed, err := Parse(tt.want)
			require.NoError(t, err)
			assert.True(t, Equal(parsed, s))
		})
	}
}

func TestSignatureOfUsesStaticChildren(t *testing.T) {
	s := MustSignatureOf[[]int32]()
	assert.True(t, s.ElemChild().Static())

	d := MustSignatureOf[map[string]int64]()
	assert.True(t, d.ElemChild().Static())
	assert.True(t, d.ValueChild().Static())

	// A slice shares the registry node of its element type.
	e := MustSignatureOf[[][]int32]()
	inner := e.ElemChild().(staticChild)
	p, ok := registry.Load(reflect.TypeFor[[]int32]())
	require.True(t, ok)
	assert.Same(t, p.(*Signature), inner.sig)
}

func TestSignatureOfDoesNotAllocate(t *testing.T) {
	_ = MustSignatureOf[tuple4]()

	allocs := testing.AllocsPerRun(100, func() {
		s, err := SignatureOf[tuple4]()
		if err != nil || s.Kind() != KindStruct {
			t.Fatal("unexpected signature")
		}
	})
	assert.Zero(t, allocs)
}

func TestSignatureOfUnsupported(t *testing.T) {
	type node struct {
		Next *node
	}

	tests := []struct {
		name string
		typ  reflect.Type
	}{
		{"float32", reflect.TypeFor[float32]()},
		{"complex", reflect.TypeFor[complex128]()},
		{"chan", reflect.TypeFor[chan int]()},
		{"func", reflect.TypeFor[func()]()},
		{"struct key", reflect.TypeFor[map[struct{ A int32 }]string]()},
		{"variant key", reflect.TypeFor[map[any]int32]()},
		{"slice of unit", reflect.TypeFor[[]struct{}]()},
		{"map of unit", reflect.TypeFor[map[string]struct{}]()},
		{"no signature", reflect.TypeFor[[]noSignature]()},
		{"recursive", reflect.TypeFor[node]()},
		{"bad field", reflect.TypeFor[struct{ F float32 }]()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SignatureOfType(tt.typ)
			assert.ErrorIs(t, err, ErrUnsupportedType)
		})
	}

	_, err := SignatureOfType(nil)
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Panics(t, func() { MustSignatureOf[float32]() })
}

type handle uint32

func (handle) DBusSignature() Signature { return ObjectPath() }

type pointerHandle struct{ id int }

func (*pointerHandle) DBusSignature() Signature { return Array(Byte()) }

type celsius float32

type noSignature struct{}

func (noSignature) DBusSignature() Signature { return Signature{} }

func TestSignatureOfTypeInterface(t *testing.T) {
	assert.Equal(t, "o", MustSignatureOf[handle]().String())
	assert.Equal(t, "ao", MustSignatureOf[[]handle]().String())
	assert.Equal(t, "ay", MustSignatureOf[pointerHandle]().String())
	assert.Equal(t, "ay", MustSignatureOf[*pointerHandle]().String())
	assert.Equal(t, "a{oay}", MustSignatureOf[map[handle]pointerHandle]().String())
}

func TestRegister(t *testing.T) {
	Register[celsius](Double())

	assert.Equal(t, "d", MustSignatureOf[celsius]().String())
	assert.Equal(t, "a{sd}", MustSignatureOf[map[string]celsius]().String())
}

type record struct {
	b *StructBuilder
}

func (r record) Signature() Signature { return r.b.Signature() }

func TestSignatureOfValue(t *testing.T) {
	s, err := SignatureOfValue(tuple4{})
	require.NoError(t, err)
	assert.Equal(t, "(isaaib)", s.String())

	s, err = SignatureOfValue(dbus.MakeVariant(int32(1)))
	require.NoError(t, err)
	assert.Equal(t, "v", s.String())

	r := record{b: NewStructBuilder().Add(Str()).Add(Uint32())}
	s, err = SignatureOfValue(r)
	require.NoError(t, err)
	assert.Equal(t, "(su)", s.String())

	_, err = SignatureOfValue(nil)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = SignatureOfValue(record{b: NewStructBuilder().Add(Signature{})})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestRegisterInvalidPanics(t *testing.T) {
	assert.Panics(t, func() { Register[noSignature](Signature{}) })
}

// TestUnitFieldsAcrossOrigins checks that unit-typed fields vanish the same
// way whether a structure is mapped, constructed or parsed.
func TestUnitFieldsAcrossOrigins(t *testing.T) {
	type withUnit struct {
		A struct{}
		B int32
		C struct{}
	}

	static := MustSignatureOf[withUnit]()
	built := Struct(Unit(), Int32(), Unit())
	fromBuilder, err := NewStructBuilder().Add(Unit()).Add(Int32()).Build()
	require.NoError(t, err)
	parsed := MustParse("(i)")

	for _, s := range []Signature{static, built, fromBuilder} {
		assert.Equal(t, "(i)", s.String())
		assert.Equal(t, 1, s.NumFields())
		assert.True(t, Equal(parsed, s))
		assert.Zero(t, Compare(s, parsed))
	}

	assert.True(t, MustSignatureOf[struct{ A, B struct{} }]().IsUnit())
	assert.True(t, Struct(Unit(), Unit()).IsUnit())
	assert.Equal(t, "a(i)", MustSignatureOf[[]withUnit]().String())
}

// TestSignatureOfMatchesGodbus cross-checks the mapping with godbus, which
// marshals these types on the wire.
func TestSignatureOfMatchesGodbus(t *testing.T) {
	types := []reflect.Type{
		reflect.TypeFor[uint8](),
		reflect.TypeFor[bool](),
		reflect.TypeFor[int16](),
		reflect.TypeFor[uint16](),
		reflect.TypeFor[int32](),
		reflect.TypeFor[uint32](),
		reflect.TypeFor[int64](),
		reflect.TypeFor[uint64](),
		reflect.TypeFor[float64](),
		reflect.TypeFor[string](),
		reflect.TypeFor[dbus.ObjectPath](),
		reflect.TypeFor[dbus.Signature](),
		reflect.TypeFor[dbus.Variant](),
		reflect.TypeFor[[]byte](),
		reflect.TypeFor[[]string](),
		reflect.TypeFor[map[string]dbus.Variant](),
		reflect.TypeFor[map[string]map[string]dbus.Variant](),
		reflect.TypeFor[tuple4](),
		reflect.TypeFor[[]tuple4](),
	}

	for _, typ := range types {
		t.Run(typ.String(), func(t *testing.T) {
			s, err := SignatureOfType(typ)
			require.NoError(t, err)
			assert.Equal(t, dbus.SignatureOfType(typ).String(), s.String())
		})
	}
}

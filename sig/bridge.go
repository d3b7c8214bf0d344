package sig

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// ============================================================
// godbus Bridge
// ============================================================

// FromDBus converts a godbus signature into a tree.
func FromDBus(d dbus.Signature) (Signature, error) {
	return Parse(d.String())
}

// ToDBus converts s into a godbus signature. godbus applies the stricter
// D-Bus rules (basic dict keys, length and depth limits) and knows no maybe
// type, so some valid trees are refused.
func ToDBus(s Signature) (dbus.Signature, error) {
	if !s.IsValid() {
		return dbus.Signature{}, fmt.Errorf("%w: no signature", ErrInvalidSignature)
	}
	if containsKind(s, KindMaybe) {
		return dbus.Signature{}, fmt.Errorf("%w: maybe types are not representable in D-Bus", ErrInvalidSignature)
	}
	d, err := dbus.ParseSignature(s.String())
	if err != nil {
		return dbus.Signature{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return d, nil
}

// containsKind reports whether k occurs anywhere in s.
func containsKind(s Signature, k Kind) bool {
	if s.kind == k {
		return true
	}
	switch s.kind {
	case KindArray, KindMaybe:
		return containsKind(s.elem.Signature(), k)
	case KindDict:
		return containsKind(s.elem.Signature(), k) || containsKind(s.value.Signature(), k)
	case KindStruct:
		for f := range s.fields.All() {
			if containsKind(f, k) {
				return true
			}
		}
	}
	return false
}

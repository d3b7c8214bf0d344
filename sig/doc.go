// Package sig models D-Bus type signatures.
//
// A signature describes the shape of a value without carrying the value:
// a scalar, an array, a dictionary, a structure or (GVariant only) a maybe.
//
// # Wire Form
//
//	y b n q i u x t d s g o v h   basic types (h only on unix)
//	a<sig>                        array
//	a{<sig><sig>}                 dict
//	(<sig>+)                      structure
//	m<sig>                        maybe, with ParseOptions.Maybe
//
// A complete input is a sequence of signatures: none is Unit, one is that
// signature, several form a structure.
//
//	Parse("")          // Unit
//	Parse("i")         // Int32()
//	Parse("ii")        // Struct(Int32(), Int32())
//	Parse("a{sa{sv}}") // Dict(Str(), Dict(Str(), Variant()))
//
// # Two Origins
//
// Signatures come from the type registry (SignatureOf[T]) or from Parse and
// the constructors. Registry signatures point into storage that lives for the
// whole process and cost nothing after the first lookup; parsed and
// constructed signatures share heap nodes between copies. Both behave the
// same under Equal, Compare and String.
//
//	type Record struct {
//		ID    int32
//		Name  string
//		Grid  [][]int32
//		Alive bool
//	}
//	MustSignatureOf[Record]().String() // "(isaaib)"
//
// # Errors
//
// Parse and Validate accept and reject exactly the same strings. Every
// failure wraps ErrInvalidSignature; the concrete *ParseError carries the
// byte offset for diagnostics.
package sig

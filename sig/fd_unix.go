//go:build unix

package sig

const unixFDSupported = true

// UnixFD returns the "h" signature (an index into passed file descriptors).
func UnixFD() Signature { return Signature{kind: KindUnixFD} }

//go:build !unix

package sig

// File descriptor passing needs unix domain sockets; "h" is rejected here.
const unixFDSupported = false

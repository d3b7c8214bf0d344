// dbussig inspects D-Bus type signatures.
//
// Usage:
//
//	dbussig parse [sig...]          Print the tree of each signature
//	dbussig validate [sig...]       Check signatures, one verdict per line
//	dbussig compare <a> <b>         Order two signatures
//	dbussig sort [sig...]           Sort signatures structurally
//	dbussig check <manifest...>     Check YAML interface manifests
//	dbussig version                 Print version info
//
// Commands that take signatures read one per line from stdin when none are
// given on the command line.
package main

func main() {
	Execute()
}

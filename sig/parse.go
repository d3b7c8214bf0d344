package sig

import (
	"errors"
	"fmt"
)

// ErrInvalidSignature is the single failure kind of Parse and Validate.
// Every error they return wraps it.
var ErrInvalidSignature = errors.New("sig: invalid signature")

// ParseError describes where a signature string was rejected.
type ParseError struct {
	Input  string
	Offset int // byte offset of the offending character
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sig: invalid signature %q at offset %d: %s", e.Input, e.Offset, e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvalidSignature) hold for every ParseError.
func (e *ParseError) Unwrap() error {
	return ErrInvalidSignature
}

// Nesting limits.
const (
	// DefaultMaxDepth caps container nesting when ParseOptions.MaxDepth is 0.
	DefaultMaxDepth = 64

	// D-Bus limits, enforced with ParseOptions.Strict.
	MaxSignatureLength = 255
	MaxArrayDepth      = 32
	MaxStructDepth     = 32
)

// ParseOptions configures the parser.
type ParseOptions struct {
	// Maybe enables the GVariant "m" (maybe) type code.
	Maybe bool

	// MaxDepth bounds container nesting. 0 means DefaultMaxDepth,
	// a negative value disables the check.
	MaxDepth int

	// Strict enforces the D-Bus length and per-kind depth limits.
	Strict bool
}

// Parse parses a wire signature string.
//
// The whole input is consumed. No signature yields Unit, exactly one yields
// that signature itself, and two or more yield a structure of them in order.
// Such a structure remembers that it was written without parentheses, so
// Format gives back the input; it is Equal to the parenthesized form.
func Parse(input string) (Signature, error) {
	return parse(input, true, ParseOptions{})
}

// ParseWithOptions parses with explicit options.
func ParseWithOptions(input string, opts ParseOptions) (Signature, error) {
	return parse(input, true, opts)
}

// MustParse is like Parse but panics on invalid input.
func MustParse(input string) Signature {
	s, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks input against the same grammar as Parse without building
// a tree.
func Validate(input string) error {
	_, err := parse(input, false, ParseOptions{})
	return err
}

// ValidateWithOptions validates with explicit options.
func ValidateWithOptions(input string, opts ParseOptions) error {
	_, err := parse(input, false, opts)
	return err
}

// parser is a recursive-descent parser over one signature string. When build
// is false it returns childless placeholder nodes, so validation shares the
// grammar without allocating a tree.
type parser struct {
	input string
	pos   int
	build bool
	opts  ParseOptions

	maxDepth    int
	depth       int
	arrayDepth  int
	structDepth int
}

func parse(input string, build bool, opts ParseOptions) (Signature, error) {
	p := parser{
		input:    input,
		build:    build,
		opts:     opts,
		maxDepth: opts.MaxDepth,
	}
	if p.maxDepth == 0 {
		p.maxDepth = DefaultMaxDepth
	}

	if opts.Strict && len(input) > MaxSignatureLength {
		return Signature{}, p.errorf("longer than %d bytes", MaxSignatureLength)
	}

	var (
		first  Signature
		fields []Signature
		n      int
	)
	for p.pos < len(p.input) {
		s, err := p.parseSignature()
		if err != nil {
			return Signature{}, err
		}
		if build {
			switch n {
			case 0:
				first = s
			case 1:
				fields = append(fields, first, s)
			default:
				fields = append(fields, s)
			}
		}
		n++
	}

	switch {
	case n == 0:
		return Unit(), nil
	case !build:
		return Signature{kind: KindStruct}, nil
	case n == 1:
		return first, nil
	default:
		return Signature{kind: KindStruct, fields: &sharedFields{fields: fields}, bare: true}, nil
	}
}

// parseSignature parses exactly one complete type.
func (p *parser) parseSignature() (Signature, error) {
	if p.pos >= len(p.input) {
		return Signature{}, p.errorf("unexpected end of signature")
	}

	c := p.input[p.pos]
	switch c {
	case 'a':
		p.pos++
		if p.pos < len(p.input) && p.input[p.pos] == '{' {
			return p.parseDict()
		}
		return p.parseSingle(KindArray)

	case '(':
		return p.parseStruct()

	case 'm':
		if p.opts.Maybe {
			p.pos++
			return p.parseSingle(KindMaybe)
		}

	case ')', '}':
		return Signature{}, p.errorf("unexpected %q", c)
	}

	if k, ok := kindForCode(c); ok {
		p.pos++
		return Signature{kind: k}, nil
	}
	return Signature{}, p.errorf("unknown type code %q", c)
}

// parseSingle parses the child of an array or maybe; the code is consumed.
func (p *parser) parseSingle(kind Kind) (Signature, error) {
	if err := p.enter(kind); err != nil {
		return Signature{}, err
	}
	defer p.leave(kind)

	child, err := p.parseSignature()
	if err != nil {
		return Signature{}, err
	}
	if !p.build {
		return Signature{kind: kind}, nil
	}
	return Signature{kind: kind, elem: SharedChild(child)}, nil
}

// parseDict parses {key value}; the leading 'a' is consumed.
func (p *parser) parseDict() (Signature, error) {
	if err := p.enter(KindDict); err != nil {
		return Signature{}, err
	}
	defer p.leave(KindDict)

	p.pos++ // consume {

	key, err := p.parseSignature()
	if err != nil {
		return Signature{}, err
	}
	value, err := p.parseSignature()
	if err != nil {
		return Signature{}, err
	}
	if p.pos >= len(p.input) {
		return Signature{}, p.errorf("unterminated dict")
	}
	if p.input[p.pos] != '}' {
		return Signature{}, p.errorf("dict must have exactly two types")
	}
	p.pos++

	if !p.build {
		return Signature{kind: KindDict}, nil
	}
	return Signature{kind: KindDict, elem: SharedChild(key), value: SharedChild(value)}, nil
}

// parseStruct parses (field+).
func (p *parser) parseStruct() (Signature, error) {
	if err := p.enter(KindStruct); err != nil {
		return Signature{}, err
	}
	defer p.leave(KindStruct)

	p.pos++ // consume (

	if p.pos < len(p.input) && p.input[p.pos] == ')' {
		return Signature{}, p.errorf("empty structure")
	}

	var fields []Signature
	for {
		if p.pos >= len(p.input) {
			return Signature{}, p.errorf("unterminated structure")
		}
		if p.input[p.pos] == ')' {
			p.pos++
			break
		}
		f, err := p.parseSignature()
		if err != nil {
			return Signature{}, err
		}
		if p.build {
			fields = append(fields, f)
		}
	}

	if !p.build {
		return Signature{kind: KindStruct}, nil
	}
	return Signature{kind: KindStruct, fields: &sharedFields{fields: fields}}, nil
}

// enter records one more level of nesting and checks the limits.
func (p *parser) enter(kind Kind) error {
	p.depth++
	if p.maxDepth > 0 && p.depth > p.maxDepth {
		return p.errorf("nesting deeper than %d", p.maxDepth)
	}

	if !p.opts.Strict {
		return nil
	}
	switch kind {
	case KindArray, KindMaybe:
		p.arrayDepth++
	case KindStruct:
		p.structDepth++
	case KindDict:
		p.arrayDepth++
		p.structDepth++
	}
	if p.arrayDepth > MaxArrayDepth {
		return p.errorf("array nesting deeper than %d", MaxArrayDepth)
	}
	if p.structDepth > MaxStructDepth {
		return p.errorf("structure nesting deeper than %d", MaxStructDepth)
	}
	return nil
}

func (p *parser) leave(kind Kind) {
	p.depth--
	if !p.opts.Strict {
		return
	}
	switch kind {
	case KindArray, KindMaybe:
		p.arrayDepth--
	case KindStruct:
		p.structDepth--
	case KindDict:
		p.arrayDepth--
		p.structDepth--
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{
		Input:  p.input,
		Offset: p.pos,
		Reason: fmt.Sprintf(format, args...),
	}
}

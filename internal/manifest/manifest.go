// Package manifest loads YAML interface manifests: named D-Bus members with
// their argument signatures, checked in bulk against the sig grammar.
package manifest

import (
	"fmt"
	"os"
	"strings"

	"github.com/Neumenon/dbussig/sig"
	"gopkg.in/yaml.v3"
)

// MemberKind is the kind of an interface member.
type MemberKind string

const (
	Method   MemberKind = "method"
	Signal   MemberKind = "signal"
	Property MemberKind = "property"
)

// Manifest is one interface description.
type Manifest struct {
	Interface string   `yaml:"interface"`
	Members   []Member `yaml:"members"`
}

// Member is a method, signal or property. In and Out hold wire signatures
// as written; they are parsed by Check so the options can vary per run.
type Member struct {
	Name string     `yaml:"name"`
	Kind MemberKind `yaml:"kind"`
	In   string     `yaml:"in,omitempty"`
	Out  string     `yaml:"out,omitempty"`
}

// Key identifies a member within its interface: kind and name, as in
// "signal/Changed". A method and a signal may share a name.
func (m Member) Key() string {
	return string(m.Kind) + "/" + m.Name
}

// Problem is one member that failed a check.
type Problem struct {
	Member string
	Field  string
	Err    error
}

func (p Problem) Error() string {
	if p.Field == "" {
		return fmt.Sprintf("%s: %v", p.Member, p.Err)
	}
	return fmt.Sprintf("%s.%s: %v", p.Member, p.Field, p.Err)
}

func (p Problem) Unwrap() error { return p.Err }

// Load reads a manifest from a YAML file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(data)
}

// Parse decodes a manifest from YAML bytes.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if m.Interface == "" {
		return nil, fmt.Errorf("manifest has no interface name")
	}
	for i := range m.Members {
		if m.Members[i].Kind == "" {
			m.Members[i].Kind = Method
		}
	}
	return &m, nil
}

// ============================================================
// Checking
// ============================================================

// Checker validates members, sharing parsed trees between members that use
// the same signature.
type Checker struct {
	opts  sig.ParseOptions
	cache *sig.Cache
}

// NewChecker creates a checker that parses with opts. In strict mode every
// signature must also be representable by godbus.
func NewChecker(opts sig.ParseOptions) (*Checker, error) {
	cache, err := sig.NewCacheWithOptions(0, opts)
	if err != nil {
		return nil, err
	}
	return &Checker{opts: opts, cache: cache}, nil
}

// Check returns every problem found in m, in member order.
func (c *Checker) Check(m *Manifest) []Problem {
	var problems []Problem
	seen := make(map[string]bool, len(m.Members))

	for _, mem := range m.Members {
		if mem.Name == "" {
			problems = append(problems, Problem{Member: "<unnamed>", Err: fmt.Errorf("member has no name")})
			continue
		}
		key := mem.Key()
		if seen[key] {
			problems = append(problems, Problem{Member: mem.Name, Err: fmt.Errorf("duplicate %s", mem.Kind)})
		}
		seen[key] = true

		switch mem.Kind {
		case Method:
		case Signal:
			if mem.Out != "" {
				problems = append(problems, Problem{Member: mem.Name, Field: "out", Err: fmt.Errorf("signals have no out arguments")})
			}
		case Property:
			if mem.In != "" {
				problems = append(problems, Problem{Member: mem.Name, Field: "in", Err: fmt.Errorf("properties have no in arguments")})
			}
		default:
			problems = append(problems, Problem{Member: mem.Name, Err: fmt.Errorf("unknown member kind %q", mem.Kind)})
			continue
		}

		if p, ok := c.checkField(mem, "in", mem.In); !ok {
			problems = append(problems, p)
		}
		out, p, ok := c.parseField(mem, "out", mem.Out)
		if !ok {
			problems = append(problems, p)
			continue
		}
		if mem.Kind == Property && (out.IsUnit() || out.IsSequence()) {
			problems = append(problems, Problem{Member: mem.Name, Field: "out", Err: fmt.Errorf("property needs exactly one complete type")})
		}
	}
	return problems
}

// Signatures parses every member and returns the in and out trees keyed by
// Member.Key. It fails on the first problem.
func (c *Checker) Signatures(m *Manifest) (map[string][2]sig.Signature, error) {
	if problems := c.Check(m); len(problems) > 0 {
		return nil, problems[0]
	}
	out := make(map[string][2]sig.Signature, len(m.Members))
	for _, mem := range m.Members {
		in, err := c.cache.Parse(mem.In)
		if err != nil {
			return nil, err
		}
		res, err := c.cache.Parse(mem.Out)
		if err != nil {
			return nil, err
		}
		out[mem.Key()] = [2]sig.Signature{in, res}
	}
	return out, nil
}

func (c *Checker) checkField(mem Member, field, text string) (Problem, bool) {
	_, p, ok := c.parseField(mem, field, text)
	return p, ok
}

func (c *Checker) parseField(mem Member, field, text string) (sig.Signature, Problem, bool) {
	s, err := c.cache.Parse(text)
	if err != nil {
		return sig.Signature{}, Problem{Member: mem.Name, Field: field, Err: err}, false
	}
	if c.opts.Strict {
		if _, err := sig.ToDBus(s); err != nil {
			return sig.Signature{}, Problem{Member: mem.Name, Field: field, Err: err}, false
		}
	}
	return s, Problem{}, true
}

// Check validates m with a fresh Checker.
func Check(m *Manifest, opts sig.ParseOptions) ([]Problem, error) {
	c, err := NewChecker(opts)
	if err != nil {
		return nil, err
	}
	return c.Check(m), nil
}

// Summary formats problems one per line.
func Summary(problems []Problem) string {
	var sb strings.Builder
	for _, p := range problems {
		sb.WriteString(p.Error())
		sb.WriteByte('\n')
	}
	return sb.String()
}

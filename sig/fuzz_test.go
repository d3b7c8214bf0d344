package sig

import (
	"testing"
)

func FuzzParse(f *testing.F) {
	for _, seed := range []string{"", "i", "ii", "a{sv}", "(isaaib)", "a(sa{sv}as)", "mai", "a{", "(()", "a"} {
		f.Add(seed)
	}

	opts := ParseOptions{Maybe: true}
	f.Fuzz(func(t *testing.T, input string) {
		s, err := ParseWithOptions(input, opts)
		verr := ValidateWithOptions(input, opts)
		if (err == nil) != (verr == nil) {
			t.Fatalf("parse and validate disagree on %q: %v vs %v", input, err, verr)
		}
		if err != nil {
			return
		}

		if got := s.String(); got != input {
			t.Fatalf("round trip %q: got %q", input, got)
		}
		if s.Len() != len(input) {
			t.Fatalf("len %q: got %d", input, s.Len())
		}
		again, err := ParseWithOptions(s.String(), opts)
		if err != nil {
			t.Fatalf("reparse %q: %v", input, err)
		}
		if !Equal(s, again) || Compare(s, again) != 0 {
			t.Fatalf("reparse %q is not equal", input)
		}
	})
}

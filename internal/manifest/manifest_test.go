package manifest

import (
	"path/filepath"
	"testing"

	"github.com/Neumenon/dbussig/sig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	m, err := Load(filepath.Join("testdata", "properties.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "org.freedesktop.DBus.Properties", m.Interface)
	require.Len(t, m.Members, 4)
	assert.Equal(t, Method, m.Members[0].Kind)
	assert.Equal(t, "a{sv}", m.Members[1].Out)
	assert.Equal(t, Signal, m.Members[3].Kind)

	problems, err := Check(m, sig.ParseOptions{Strict: true})
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("members: [}"))
	assert.Error(t, err)

	_, err = Parse([]byte("members:\n  - name: Ping\n"))
	assert.ErrorContains(t, err, "no interface")
}

func TestParseDefaultsKind(t *testing.T) {
	m, err := Parse([]byte("interface: org.example.Ping\nmembers:\n  - name: Ping\n"))
	require.NoError(t, err)
	assert.Equal(t, Method, m.Members[0].Kind)
}

func TestCheckBroken(t *testing.T) {
	m, err := Load(filepath.Join("testdata", "broken.yaml"))
	require.NoError(t, err)

	problems, err := Check(m, sig.ParseOptions{})
	require.NoError(t, err)

	var got []string
	for _, p := range problems {
		got = append(got, p.Member+"."+p.Field)
	}
	assert.Equal(t, []string{
		"Open.in",
		"Changed.out",
		"Volume.out",
		"Open.",
		"Hint.out",
		"Frob.",
	}, got)

	assert.ErrorIs(t, problems[0], sig.ErrInvalidSignature)
	assert.ErrorIs(t, problems[4], sig.ErrInvalidSignature)
	assert.Contains(t, Summary(problems), "Frob: unknown member kind \"widget\"")
}

func TestCheckWithMaybe(t *testing.T) {
	m, err := Load(filepath.Join("testdata", "broken.yaml"))
	require.NoError(t, err)

	problems, err := Check(m, sig.ParseOptions{Maybe: true})
	require.NoError(t, err)
	assert.Len(t, problems, 5)
	for _, p := range problems {
		assert.NotEqual(t, "Hint", p.Member)
	}
}

func TestCheckStrictUsesDBusRules(t *testing.T) {
	m := &Manifest{
		Interface: "org.example.Maybe",
		Members:   []Member{{Name: "Get", Kind: Method, Out: "ms"}},
	}

	problems, err := Check(m, sig.ParseOptions{Maybe: true})
	require.NoError(t, err)
	assert.Empty(t, problems)

	problems, err = Check(m, sig.ParseOptions{Maybe: true, Strict: true})
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, "out", problems[0].Field)
}

func TestSignatures(t *testing.T) {
	m, err := Load(filepath.Join("testdata", "properties.yaml"))
	require.NoError(t, err)

	c, err := NewChecker(sig.ParseOptions{})
	require.NoError(t, err)
	sigs, err := c.Signatures(m)
	require.NoError(t, err)

	getAll := sigs["method/GetAll"]
	assert.True(t, sig.Equal(sig.Str(), getAll[0]))
	assert.True(t, sig.Equal(sig.Dict(sig.Str(), sig.Variant()), getAll[1]))

	set := sigs["method/Set"]
	assert.Equal(t, "ssv", set[0].String())
	assert.True(t, set[1].IsUnit())

	broken, err := Load(filepath.Join("testdata", "broken.yaml"))
	require.NoError(t, err)
	_, err = c.Signatures(broken)
	assert.Error(t, err)
}

func TestSignaturesKeepsKindsApart(t *testing.T) {
	m := &Manifest{
		Interface: "org.example.Shared",
		Members: []Member{
			{Name: "Changed", Kind: Method, In: "s", Out: "b"},
			{Name: "Changed", Kind: Signal, In: "sv"},
		},
	}

	c, err := NewChecker(sig.ParseOptions{})
	require.NoError(t, err)
	sigs, err := c.Signatures(m)
	require.NoError(t, err)
	require.Len(t, sigs, 2)

	assert.Equal(t, "b", sigs["method/Changed"][1].String())
	assert.Equal(t, "sv", sigs["signal/Changed"][0].String())
	assert.True(t, sigs["signal/Changed"][1].IsUnit())
}

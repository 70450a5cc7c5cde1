package module

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModule_Attr(t *testing.T) {
	m := New("pkg.runtime", map[string]any{"Version": "1.0", "answer": 42})

	v, err := m.Attr("answer")
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = m.Attr("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoAttribute))
	assert.Contains(t, err.Error(), "pkg.runtime")
	assert.Contains(t, err.Error(), "missing")
}

func TestModule_NamesSortedAndCopied(t *testing.T) {
	m := New("pkg", map[string]any{"b": 1, "a": 2, "c": 3})

	names := m.Names()
	assert.Equal(t, []string{"a", "b", "c"}, names)

	names[0] = "zzz"
	assert.Equal(t, []string{"a", "b", "c"}, m.Names())
}

func TestModule_NamespaceIsolated(t *testing.T) {
	src := map[string]any{"a": 1}
	m := New("pkg", src)

	src["b"] = 2
	_, err := m.Attr("b")
	assert.Error(t, err)

	ns := m.Namespace()
	ns["c"] = 3
	_, err = m.Attr("c")
	assert.Error(t, err)
}

func TestModule_Checksum(t *testing.T) {
	a := New("a", map[string]any{"x": 1, "y": 2})
	b := New("b", map[string]any{"y": "other", "x": "values"})
	c := New("c", map[string]any{"x": 1})

	assert.Equal(t, a.Checksum(), b.Checksum())
	assert.NotEqual(t, a.Checksum(), c.Checksum())
	assert.Len(t, a.Checksum(), 64)
}

func TestModule_String(t *testing.T) {
	assert.Equal(t, "<module 'pkg.sub'>", New("pkg.sub", nil).String())
}

func TestNew_PanicsOnEmptyName(t *testing.T) {
	assert.Panics(t, func() { New("", nil) })
}

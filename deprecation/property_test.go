package deprecation

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/st-keller/bindutil/classprop"
)

func newCoreClass() *classprop.Class {
	c := classprop.NewClass("Core", nil)
	c.SetVar("devices", []string{"CPU", "GPU"})
	return c
}

func deviceCount(owner *classprop.Class) int {
	v, _ := owner.Var("devices")
	return len(v.([]string))
}

func TestProperty_EmitsPerRead(t *testing.T) {
	rec := NewRecorder(10)
	c := newCoreClass()

	plain := classprop.New[int](deviceCount)
	c.Define("available_devices", Property[int](New(WithName("Core.available_devices"), WithVersion("2026.0"), WithSink(rec)), deviceCount))

	for i := 0; i < 3; i++ {
		v, err := c.Attr("available_devices")
		require.NoError(t, err)
		assert.Equal(t, plain.Get(c), v)
	}

	inst := c.New()
	v, err := inst.Attr("available_devices")
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	assert.Equal(t, 4, rec.Count("Core.available_devices"))
	for _, e := range rec.Entries() {
		assert.Equal(t, "property_test.go", filepath.Base(e.File))
	}
}

func TestProperty_DefaultSubject(t *testing.T) {
	rec := NewRecorder(10)
	p := Property[int](New(WithSink(rec)), deviceCount)

	assert.Equal(t, 2, p.Get(newCoreClass()))
	assert.Equal(t, 1, rec.Count("deviceCount"))
}

func TestProperty_StaticGetter(t *testing.T) {
	rec := NewRecorder(10)
	p := Property[string](New(WithName("VERSION"), WithSink(rec)), func() string { return "2025.1" })

	assert.Equal(t, "2025.1", p.Get(newCoreClass()))
	assert.Equal(t, 1, rec.Count("VERSION"))
}

func TestProperty_StaysReadOnly(t *testing.T) {
	rec := NewRecorder(10)
	c := newCoreClass()
	c.Define("devices_count", Property[int](New(WithSink(rec)), deviceCount))

	err := c.SetAttr("devices_count", 5)
	assert.True(t, errors.Is(err, classprop.ErrReadOnly))
	err = c.New().Set("devices_count", 5)
	assert.True(t, errors.Is(err, classprop.ErrReadOnly))

	assert.Equal(t, 0, rec.Total())
}

func TestProperty_SharedDecoratorIndependent(t *testing.T) {
	rec := NewRecorder(10)
	d := New(WithVersion("3.0"), WithSink(rec))
	c := newCoreClass()

	c.Define("a", Property[string](d, func() string { return "a" }))
	c.Define("b", Property[string](d, func() string { return "b" }))

	a, err := classprop.Read[string](c, "a")
	require.NoError(t, err)
	b, err := classprop.Read[string](c, "b")
	require.NoError(t, err)

	assert.Equal(t, "a", a)
	assert.Equal(t, "b", b)
	assert.Equal(t, 2, rec.Total())
	assert.NotEqual(t, rec.Entries()[0].Notice.Subject, rec.Entries()[1].Notice.Subject)
}

func TestProperty_InheritedOwner(t *testing.T) {
	rec := NewRecorder(10)
	base := newCoreClass()
	base.Define("count", Property[int](New(WithSink(rec)), deviceCount))

	derived := classprop.NewClass("NPUCore", base)
	derived.SetVar("devices", []string{"NPU"})

	n, err := classprop.Read[int](derived, "count")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, rec.Total())
}

type namedCount struct{}

func (namedCount) Name() string                   { return "Core.device_count" }
func (namedCount) Get(owner *classprop.Class) int { return deviceCount(owner) }

type anonCount struct{}

func (*anonCount) Get(owner *classprop.Class) int { return deviceCount(owner) }

func TestProperty_GetterSubjects(t *testing.T) {
	tests := []struct {
		name   string
		getter any
		want   string
	}{
		{"named getter", namedCount{}, "Core.device_count"},
		{"class method", classprop.ClassMethod[int](deviceCount), "deviceCount"},
		{"wrapped property", classprop.New[int](deviceCount), "deviceCount"},
		{"anonymous getter", &anonCount{}, "anonCount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewRecorder(10)
			p := Property[int](New(WithSink(rec)), tt.getter)

			assert.Equal(t, 2, p.Get(newCoreClass()))
			require.Len(t, rec.Entries(), 1)
			assert.Equal(t, tt.want, rec.Entries()[0].Notice.Subject)
		})
	}
}

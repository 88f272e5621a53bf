package buffer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText_ValueSetValue(t *testing.T) {
	b := NewText("initial")
	assert.Equal(t, "initial", b.Value())

	b.SetValue("next")
	assert.Equal(t, "next", b.Value())
}

func TestText_OnChangeOrder(t *testing.T) {
	b := NewText("")
	var got []string

	b.OnChange(func(s string) { got = append(got, "first:"+s) })
	b.OnChange(func(s string) { got = append(got, "second:"+s) })

	b.SetValue("x")

	assert.Equal(t, []string{"first:x", "second:x"}, got)
}

func TestText_RemoveListener(t *testing.T) {
	b := NewText("")
	calls := 0

	remove := b.OnChange(func(string) { calls++ })
	b.SetValue("a")
	remove()
	b.SetValue("b")
	remove() // idempotent

	assert.Equal(t, 1, calls)
}

func TestText_SetDoesNotNotify(t *testing.T) {
	b := NewText("")
	calls := 0
	b.OnChange(func(string) { calls++ })

	b.Set("quiet")

	assert.Equal(t, "quiet", b.Value())
	assert.Zero(t, calls)
}

func TestText_ListenerMayReadValue(t *testing.T) {
	b := NewText("")
	var seen string
	b.OnChange(func(string) { seen = b.Value() })

	b.SetValue("reentrant")

	assert.Equal(t, "reentrant", seen)
}

func TestText_Concurrent(t *testing.T) {
	b := NewText("")
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			b.SetValue("v")
		}()
		go func() {
			defer wg.Done()
			_ = b.Value()
		}()
	}
	wg.Wait()

	assert.Equal(t, "v", b.Value())
}

func TestRecorder(t *testing.T) {
	b := NewText("")
	var rec Recorder
	stop := rec.Record(b)

	b.SetValue("Hel")
	b.SetValue("Hello")
	stop()
	b.SetValue("ignored")

	require.Len(t, rec.Values(), 2)
	assert.Equal(t, []string{"Hel", "Hello"}, rec.Values())
}

func TestText_ImplementsView(t *testing.T) {
	var _ View = (*Text)(nil)
}

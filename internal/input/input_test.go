package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultModeKeys(t *testing.T) {
	h := NewHandler()

	assert.Equal(t, Quit, h.Key("q").Kind)
	assert.Equal(t, Quit, h.Key("ctrl+c").Kind)

	c := h.Key("j")
	assert.Equal(t, ScrollTo, c.Kind)
	assert.Equal(t, PosDown, c.Pos.Kind)

	c = h.Key("k")
	assert.Equal(t, PosUp, c.Pos.Kind)

	c = h.Key("G")
	assert.Equal(t, PosBottom, c.Pos.Kind)

	c = h.Key("g")
	assert.Equal(t, PosTop, c.Pos.Kind)

	assert.Equal(t, ScrollLeft, h.Key("h").Kind)
	assert.Equal(t, ScrollRight, h.Key("l").Kind)
	assert.Equal(t, ScrollToNextFound, h.Key("n").Kind)
	assert.Equal(t, ScrollToPrevFound, h.Key("N").Kind)
	assert.Equal(t, Nop, h.Key("x").Kind)
}

func TestFindFlow(t *testing.T) {
	h := NewHandler()

	c := h.Key("/")
	assert.Equal(t, BufferContent, c.Kind)
	assert.Equal(t, ModeFind, h.Mode())

	c = h.Buffer("foo")
	assert.Equal(t, BufferContent, c.Kind)
	assert.Equal(t, "foo", c.Text)

	c = h.Commit("foo")
	assert.Equal(t, Find, c.Kind)
	assert.Equal(t, "foo", c.Text)
	assert.Equal(t, ModeDefault, h.Mode())
}

func TestFilterFlow(t *testing.T) {
	h := NewHandler()

	h.Key("&")
	assert.Equal(t, ModeFilter, h.Mode())

	c := h.Commit("bar")
	assert.Equal(t, Filter, c.Kind)
	assert.Equal(t, "bar", c.Text)
}

func TestGotoFlow(t *testing.T) {
	h := NewHandler()

	h.Key(":")
	assert.Equal(t, ModeGoto, h.Mode())

	c := h.Commit("12")
	assert.Equal(t, ScrollTo, c.Kind)
	assert.Equal(t, PosRow, c.Pos.Kind)
	assert.Equal(t, 11, c.Pos.Row)
}

func TestGotoRejectsGarbage(t *testing.T) {
	h := NewHandler()

	h.Key(":")
	c := h.Commit("abc")
	assert.Equal(t, BufferReset, c.Kind)
	assert.Equal(t, ModeDefault, h.Mode())

	h.Key(":")
	c = h.Commit("0")
	assert.Equal(t, BufferReset, c.Kind)
}

func TestCancel(t *testing.T) {
	h := NewHandler()

	h.Key("/")
	c := h.Cancel()
	assert.Equal(t, BufferReset, c.Kind)
	assert.Equal(t, ModeDefault, h.Mode())
}

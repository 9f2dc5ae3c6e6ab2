package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentRenderer_Render(t *testing.T) {
	r := NewContentRenderer()

	assert.Equal(t, "", r.Render(""))
	assert.Equal(t, "<b>bold</b> and <i>it</i> <u>u</u>", r.Render("<b>bold</b> and <i>it</i> <u>u</u>"))
	assert.Equal(t, "line1<br>line2", r.Render("line1\nline2"))
	assert.Contains(t, r.Render(`<font color="#ff0000">red</font>`), `color="#ff0000"`)
	assert.Contains(t, r.Render(`<font color="red">red</font>`), `color="red"`)

	out := r.Render(`<script>alert(1)</script>ok`)
	assert.NotContains(t, out, "<script")
	assert.Contains(t, out, "ok")

	out = r.Render(`<font color="javascript:alert(1)">x</font>`)
	assert.NotContains(t, out, "javascript")

	out = r.Render(`<a href="http://x">link</a>`)
	assert.NotContains(t, out, "<a")
	assert.Contains(t, out, "link")
}

func TestContentRenderer_RenderPlain(t *testing.T) {
	r := NewContentRenderer()

	assert.Equal(t, "", r.RenderPlain(""))
	assert.Equal(t, "&lt;b&gt;hi&lt;/b&gt;<br>there", r.RenderPlain("<b>hi</b>\nthere"))
	assert.Equal(t, "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;", r.RenderPlain(`<script>alert("x")</script>`))
	assert.Equal(t, "a &amp; b", r.RenderPlain("a & b"))
}

package render

import (
	"strings"
	"testing"

	"github.com/vango-dev/vpatch/pkg/vdom"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		name string
		in   string
		text string
		attr string
	}{
		{"empty", "", "", ""},
		{"plain", "Hello, World!", "Hello, World!", "Hello, World!"},
		{"ampersand", "Tom & Jerry", "Tom &amp; Jerry", "Tom &amp; Jerry"},
		{"angle brackets", "a < b > c", "a &lt; b &gt; c", "a &lt; b &gt; c"},
		{"quotes", `say "hi" 'now'`, "say &quot;hi&quot; &#39;now&#39;", "say &quot;hi&quot; &#39;now&#39;"},
		{"script", "<script>alert(1)</script>", "&lt;script&gt;alert(1)&lt;/script&gt;", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{"already escaped", "&amp;", "&amp;amp;", "&amp;amp;"},
		{"whitespace", "a\tb\r\nc", "a\tb\r\nc", "a&#9;b&#13;&#10;c"},
		{"unicode", "héllo → 世界", "héllo → 世界", "héllo → 世界"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := escapeHTML(tc.in); got != tc.text {
				t.Errorf("escapeHTML(%q) = %q, want %q", tc.in, got, tc.text)
			}
			if got := escapeAttr(tc.in); got != tc.attr {
				t.Errorf("escapeAttr(%q) = %q, want %q", tc.in, got, tc.attr)
			}

			var sb strings.Builder
			writeText(&sb, tc.in)
			sb.WriteByte('|')
			writeAttrValue(&sb, tc.in)
			if want := tc.text + "|" + tc.attr; sb.String() != want {
				t.Errorf("writers produced %q, want %q", sb.String(), want)
			}
		})
	}
}

func TestTextNodeEscaping(t *testing.T) {
	got := HTML(create(t, vdom.Pre("if a < b && c > d {\n\treturn\n}")), RendererConfig{})
	want := "<pre>if a &lt; b &amp;&amp; c &gt; d {\n\treturn\n}</pre>"
	if got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}
}

func BenchmarkEscape(b *testing.B) {
	inputs := map[string]string{
		"plain":   strings.Repeat("plain text without specials ", 20),
		"special": strings.Repeat(`<a href="x">Tom & Jerry</a> `, 20),
	}
	for name, s := range inputs {
		b.Run(name, func(b *testing.B) {
			var sb strings.Builder
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				sb.Reset()
				writeText(&sb, s)
			}
		})
	}
}

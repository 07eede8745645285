package render

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vango-dev/vpatch/pkg/native/memdom"
	"github.com/vango-dev/vpatch/pkg/tree"
	"github.com/vango-dev/vpatch/pkg/vdom"
)


func TestRenderToString(t *testing.T) {
	tests := []struct {
		name string
		node vdom.Node
		want string
	}{
		{
			name: "attributes sorted",
			node: vdom.Div(vdom.ID("main"), vdom.Class("a b"), "hi"),
			want: `<div class="a b" id="main">hi</div>`,
		},
		{
			name: "properties as attributes",
			node: vdom.Input(vdom.Type("text"), vdom.Value("x<y"), vdom.Disabled(true), vdom.Checked(false)),
			want: `<input disabled type="text" value="x&lt;y">`,
		},
		{
			name: "class name property",
			node: vdom.Div(vdom.Property("className", "card"), vdom.Property("tabIndex", 2)),
			want: `<div class="card" tabindex="2"></div>`,
		},
		{
			name: "style map",
			node: vdom.Div(vdom.Style("margin", "0"), vdom.Style("color", "red")),
			want: `<div style="color: red; margin: 0"></div>`,
		},
		{
			name: "boolean attribute",
			node: vdom.Div(vdom.Hidden()),
			want: `<div hidden></div>`,
		},
		{
			name: "void element",
			node: vdom.P("a", vdom.Br(), "b"),
			want: `<p>a<br>b</p>`,
		},
		{
			name: "escaped text",
			node: vdom.Div(`<b>"x" & y</b>`),
			want: `<div>&lt;b&gt;&quot;x&quot; &amp; y&lt;/b&gt;</div>`,
		},
		{
			name: "svg namespace declared once",
			node: vdom.Div(vdom.Svg(vdom.Path(vdom.D("M0 0")))),
			want: `<div><svg xmlns="http://www.w3.org/2000/svg"><path d="M0 0"/></svg></div>`,
		},
		{
			name: "text root",
			node: vdom.Text("plain"),
			want: "plain",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewRenderer(RendererConfig{}).RenderToString(create(t, tc.node))
			if err != nil {
				t.Fatalf("RenderToString() error = %v", err)
			}
			if got != tc.want {
				t.Errorf("RenderToString()\ngot:  %s\nwant: %s", got, tc.want)
			}
		})
	}
}

func TestRenderPretty(t *testing.T) {
	root := create(t, vdom.Ul(
		vdom.Li("a"),
		vdom.Li(vdom.Span("b"), "c"),
		vdom.Li(vdom.Input()),
	))

	got := HTML(root, RendererConfig{Pretty: true})
	want := strings.Join([]string{
		"<ul>",
		"  <li>a</li>",
		"  <li>",
		"    <span>b</span>",
		"    c",
		"  </li>",
		"  <li>",
		"    <input>",
		"  </li>",
		"</ul>",
		"",
	}, "\n")
	if got != want {
		t.Errorf("pretty output\ngot:\n%s\nwant:\n%s", got, want)
	}

	tabbed := HTML(root, RendererConfig{Pretty: true, Indent: "\t"})
	if !strings.Contains(tabbed, "\n\t<li>a</li>\n") {
		t.Errorf("custom indent not applied:\n%s", tabbed)
	}
}

func TestRenderSkipProps(t *testing.T) {
	root := create(t, vdom.Input(vdom.Name("q"), vdom.Value("secret")))
	got := HTML(root, RendererConfig{SkipProps: true})
	if got != `<input name="q">` {
		t.Errorf("HTML() = %s", got)
	}
}

func TestRenderAttributeEscaping(t *testing.T) {
	root := create(t, vdom.Div(vdom.TitleAttr("say \"hi\"\nnow")))
	got := HTML(root, RendererConfig{})
	if v := attrValue(t, got, "title"); v != "say &quot;hi&quot;&#10;now" {
		t.Errorf("title = %q", v)
	}
}

func TestRenderAfterUpdate(t *testing.T) {
	tr, err := tree.Mount(memdom.New(), vdom.Ul(
		vdom.Li(vdom.Key("a"), "a"),
		vdom.Li(vdom.Key("b"), "b"),
	))
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	_, err = tr.Update(context.Background(), vdom.Ul(
		vdom.Li(vdom.Key("b"), vdom.Class("on"), "b"),
		vdom.Li(vdom.Key("a"), "a"),
		vdom.Li(vdom.Key("c"), "c"),
	))
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got := HTML(tr.Root().(*memdom.Node), RendererConfig{})
	want := `<ul><li class="on">b</li><li>a</li><li>c</li></ul>`
	if got != want {
		t.Errorf("HTML() after update\ngot:  %s\nwant: %s", got, want)
	}
}

func TestRenderNil(t *testing.T) {
	if got := HTML(nil, RendererConfig{}); got != "" {
		t.Errorf("HTML(nil) = %q", got)
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderToWriterError(t *testing.T) {
	err := NewRenderer(RendererConfig{}).RenderToWriter(failingWriter{}, create(t, vdom.Div("x")))
	if err == nil || err.Error() != "disk full" {
		t.Errorf("RenderToWriter() error = %v, want disk full", err)
	}
}

func BenchmarkRenderToString(b *testing.B) {
	items := make([]vdom.Node, 0, 100)
	for i := 0; i < 100; i++ {
		items = append(items, vdom.Li(vdom.Key(i), vdom.Class("item"), vdom.Textf("item %d", i)))
	}
	root := create(b, vdom.Ul(items))
	r := NewRenderer(RendererConfig{Pretty: true})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.RenderToString(root)
	}
}

package render

import (
	"regexp"
	"testing"

	"github.com/vango-dev/vpatch/pkg/dom"
	"github.com/vango-dev/vpatch/pkg/native/memdom"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// create renders n into a fresh memdom document.
func create(t testing.TB, n vdom.Node) *memdom.Node {
	t.Helper()
	root, err := dom.Create(memdom.New(), n)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return root.(*memdom.Node)
}

// attrValue returns the raw, still escaped, value of the first name="..."
// attribute in markup.
func attrValue(t *testing.T, markup, name string) string {
	t.Helper()
	m := regexp.MustCompile(`\s` + regexp.QuoteMeta(name) + `="([^"]*)"`).FindStringSubmatch(markup)
	if m == nil {
		t.Fatalf("no %s attribute in %s", name, markup)
	}
	return m[1]
}

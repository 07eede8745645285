package vdom

import (
	"fmt"
	"strings"
)

// attr creates an attribute.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Key sets the reconciliation key of the element.
func Key(key any) Attr { return attr("key", fmt.Sprint(key)) }

// Global attributes

// ID sets the element id.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// Data sets a data-* attribute.
func Data(key, value string) Attr { return attr("data-"+key, value) }

func Role(role string) Attr           { return attr("role", role) }
func AriaLabel(label string) Attr     { return attr("aria-label", label) }
func AriaHidden(hidden bool) Attr     { return attr("aria-hidden", hidden) }
func TabIndex(index int) Attr         { return attr("tabindex", index) }
func Hidden() Attr                    { return attr("hidden", true) }
func TitleAttr(title string) Attr     { return attr("title", title) }
func Lang(lang string) Attr           { return attr("lang", lang) }
func Dir(dir string) Attr             { return attr("dir", dir) }
func Href(url string) Attr            { return attr("href", url) }
func Target(target string) Attr       { return attr("target", target) }
func Rel(rel string) Attr             { return attr("rel", rel) }
func Name(name string) Attr           { return attr("name", name) }
func Type(t string) Attr              { return attr("type", t) }
func Placeholder(text string) Attr    { return attr("placeholder", text) }
func For(id string) Attr              { return attr("for", id) }
func Src(url string) Attr             { return attr("src", url) }
func Alt(text string) Attr            { return attr("alt", text) }
func Width(w int) Attr                { return attr("width", w) }
func Height(h int) Attr               { return attr("height", h) }
func ViewBox(box string) Attr         { return attr("viewBox", box) }
func D(path string) Attr              { return attr("d", path) }
func Fill(color string) Attr          { return attr("fill", color) }
func Stroke(color string) Attr        { return attr("stroke", color) }
func ColSpan(n int) Attr              { return attr("colspan", n) }
func Action(url string) Attr          { return attr("action", url) }
func Method(method string) Attr       { return attr("method", method) }
func Autocomplete(value string) Attr  { return attr("autocomplete", value) }
func ContentEditable(on bool) Attr    { return attr("contenteditable", on) }
func Spellcheck(check bool) Attr      { return attr("spellcheck", check) }

// Form state is usually driven through properties rather than attributes so
// that the live value follows the tree after user edits.

// Value sets the value property.
func Value(value string) Prop { return Property("value", value) }

// Checked sets the checked property.
func Checked(checked bool) Prop { return Property("checked", checked) }

// Disabled sets the disabled property.
func Disabled(disabled bool) Prop { return Property("disabled", disabled) }

// Selected sets the selected property.
func Selected(selected bool) Prop { return Property("selected", selected) }

// ClassIf returns a class attribute only if the condition is true.
func ClassIf(condition bool, class string) Attr {
	if condition {
		return Class(class)
	}
	return Attr{}
}

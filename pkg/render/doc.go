// Package render serializes memdom trees to HTML.
//
// The output is meant for inspection: the CLI prints it after applying
// patches, and the inspector serves it for the live tree. Scalar properties
// are written as attributes next to real attributes so state set through
// properties (value, checked) is visible. The style map is folded into a
// single style attribute with declarations in name order.
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{Pretty: true})
//	html, err := renderer.RenderToString(root)
//
// Text and attribute values are escaped. Void elements (input, br, img)
// have no closing tag and childless SVG elements self-close. In pretty mode inline elements and elements that
// only hold text stay on one line.
package render

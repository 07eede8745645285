// Package treefile loads virtual trees from YAML or JSON documents.
//
// A document is one node. Strings are text nodes. Mappings describe an
// element, a text node or a widget placeholder:
//
//	tag: ul
//	key: list
//	attrs: {class: items}
//	children:
//	  - tag: li
//	    key: a
//	    props: {value: 1}
//	    style: {color: red}
//	    children: [first]
//	  - text: second
//	  - widget: chart-v1
//	    tag: canvas
//
// Children inherit their parent's namespace. The ns value "svg" is short for
// the SVG namespace. Widget placeholders render an element carrying a
// data-widget attribute and are compatible only with placeholders of the
// same id.
package treefile

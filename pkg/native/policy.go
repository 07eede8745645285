package native

// Route says where a property name is applied on a live node.
type Route uint8

const (
	RouteProperty   Route = iota // Direct native property
	RouteAttributes              // Nested bag of attributes
	RouteStyle                   // Nested bag of style entries
)

// String returns the string representation of the Route.
func (r Route) String() string {
	switch r {
	case RouteProperty:
		return "property"
	case RouteAttributes:
		return "attributes"
	case RouteStyle:
		return "style"
	default:
		return "unknown"
	}
}

// Default reserved property names.
const (
	DefaultAttributesKey = "attributes"
	DefaultStyleKey      = "style"
)

// PropertyPolicy maps reserved property names to routes. Every name that
// is not reserved is a direct property.
type PropertyPolicy struct {
	// AttributesKey names the nested bag routed to SetAttribute.
	AttributesKey string

	// StyleKey names the nested bag routed to SetStyle.
	StyleKey string
}

// DefaultPolicy returns the policy used by browser-like trees.
func DefaultPolicy() PropertyPolicy {
	return PropertyPolicy{
		AttributesKey: DefaultAttributesKey,
		StyleKey:      DefaultStyleKey,
	}
}

// Route returns the route for a property name.
func (p PropertyPolicy) Route(name string) Route {
	switch {
	case p.AttributesKey != "" && name == p.AttributesKey:
		return RouteAttributes
	case p.StyleKey != "" && name == p.StyleKey:
		return RouteStyle
	default:
		return RouteProperty
	}
}

package model

// Connection is an unordered pair of node labels reported by a contributor
type Connection [2]string

// Contributor holds the nodes and connections authored by one person
type Contributor struct {
	Name        string       `json:"name"`
	Nodes       []string     `json:"nodes"`
	Connections []Connection `json:"connections"`
}

// Dataset is the ordered sequence of contributor records the mind map is built from
type Dataset []Contributor

// Names returns contributor names in dataset order
func (d Dataset) Names() []string {
	names := make([]string, 0, len(d))
	for _, c := range d {
		names = append(names, c.Name)
	}
	return names
}

// Find returns the first contributor with the given name
func (d Dataset) Find(name string) (*Contributor, bool) {
	for i := range d {
		if d[i].Name == name {
			return &d[i], true
		}
	}
	return nil, false
}

// Other returns the endpoint of c that is not label.
// The second return value is false if label is not an endpoint.
func (c Connection) Other(label string) (string, bool) {
	switch label {
	case c[0]:
		return c[1], true
	case c[1]:
		return c[0], true
	}
	return "", false
}

// Touches reports whether label is one of the endpoints
func (c Connection) Touches(label string) bool {
	return c[0] == label || c[1] == label
}

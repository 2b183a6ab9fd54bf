package game

import "fmt"

// enumNames maps the values of an integer enum to their text form.
type enumNames struct {
	what  string
	names []string
}

func (n enumNames) valid(v int) bool {
	return v >= 0 && v < len(n.names)
}

func (n enumNames) String(v int) string {
	if !n.valid(v) {
		return fmt.Sprintf("%s(%d)", n.what, v)
	}

	return n.names[v]
}

func (n enumNames) marshal(v int) ([]byte, error) {
	if !n.valid(v) {
		return nil, fmt.Errorf("game: invalid %s %d", n.what, v)
	}

	return []byte(n.names[v]), nil
}

func (n enumNames) unmarshal(text []byte) (int, error) {
	for i, name := range n.names {
		if name == string(text) {
			return i, nil
		}
	}

	return 0, fmt.Errorf("game: unknown %s %q", n.what, string(text))
}

package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// ErrUnknownAction is returned when a tagged action names a kind that is not
// registered.
var ErrUnknownAction = errors.New("unknown action kind")

type actionRegistry struct {
	lock sync.RWMutex

	byKind map[string]reflect.Type
	byType map[reflect.Type]string
}

var registry = actionRegistry{
	byKind: make(map[string]reflect.Type),
	byType: make(map[reflect.Type]string),
}

// RegisterAction adds an action kind to the closed set of actions that can be
// carried as data. The prototype must be a non-pointer value. Registering a
// kind or a type twice panics.
func RegisterAction(kind string, prototype Action) {
	t := reflect.TypeOf(prototype)
	if t.Kind() == reflect.Ptr {
		panic("action prototype must not be a pointer")
	}

	registry.lock.Lock()
	defer registry.lock.Unlock()

	if _, ok := registry.byKind[kind]; ok {
		panic(fmt.Sprintf("action kind %s already registered", kind))
	}

	if _, ok := registry.byType[t]; ok {
		panic(fmt.Sprintf("action type %s already registered", t))
	}

	registry.byKind[kind] = t
	registry.byType[t] = kind
}

// ActionKind returns the registered kind of an action. Unregistered actions
// are named after their Go type.
func ActionKind(a Action) string {
	if a == nil {
		return "<nil>"
	}

	t := reflect.TypeOf(a)

	registry.lock.RLock()
	defer registry.lock.RUnlock()

	kind, ok := registry.byType[t]
	if !ok {
		return t.String()
	}

	return kind
}

// ActionKinds lists all registered kinds in alphabetical order.
func ActionKinds() []string {
	registry.lock.RLock()
	defer registry.lock.RUnlock()

	kinds := make([]string, 0, len(registry.byKind))
	for k := range registry.byKind {
		kinds = append(kinds, k)
	}

	sort.Strings(kinds)

	return kinds
}

// VAction carries an action as a tagged value.
type VAction struct {
	Action
}

type taggedAction struct {
	Type string          `json:"type"`
	Args json.RawMessage `json:"args,omitempty"`
}

// MarshalJSON encodes the action as {"type": kind, "args": {...}}.
func (v VAction) MarshalJSON() ([]byte, error) {
	if v.Action == nil {
		return []byte("null"), nil
	}

	t := reflect.TypeOf(v.Action)

	registry.lock.RLock()
	kind, ok := registry.byType[t]
	registry.lock.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, t)
	}

	args, err := json.Marshal(v.Action)
	if err != nil {
		return nil, err
	}

	return json.Marshal(taggedAction{Type: kind, Args: args})
}

// UnmarshalJSON decodes a tagged action. Only registered kinds are accepted.
func (v *VAction) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		v.Action = nil
		return nil
	}

	var tagged taggedAction

	err := json.Unmarshal(data, &tagged)
	if err != nil {
		return err
	}

	registry.lock.RLock()
	t, ok := registry.byKind[tagged.Type]
	registry.lock.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, tagged.Type)
	}

	ptr := reflect.New(t)

	if len(tagged.Args) > 0 && string(tagged.Args) != "null" {
		err = json.Unmarshal(tagged.Args, ptr.Interface())
		if err != nil {
			return fmt.Errorf("decode %s args: %w", tagged.Type, err)
		}
	}

	v.Action = ptr.Elem().Interface().(Action)

	return nil
}

// ParseAction decodes a tagged action.
func ParseAction(data []byte) (Action, error) {
	var v VAction

	err := json.Unmarshal(data, &v)
	if err != nil {
		return nil, err
	}

	if v.Action == nil {
		return nil, fmt.Errorf("%w: null", ErrUnknownAction)
	}

	return v.Action, nil
}

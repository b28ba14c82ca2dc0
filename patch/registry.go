package patch

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Registry maps module paths to their replaceable symbols. Each symbol is a
// pointer to a package-level variable.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]map[string]reflect.Value
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]map[string]reflect.Value)}
}

// Register adds symbols to module. Every value must be a non-nil pointer to a
// variable of function or interface type. Registering an existing name
// overwrites it.
func (r *Registry) Register(module string, symbols map[string]any) error {
	vals := make(map[string]reflect.Value, len(symbols))
	for name, sym := range symbols {
		v := reflect.ValueOf(sym)
		if v.Kind() != reflect.Pointer || v.IsNil() {
			return fmt.Errorf("patch: symbol %s.%s must be a non-nil pointer, got %T", module, name, sym)
		}
		switch v.Elem().Kind() {
		case reflect.Func, reflect.Interface:
		default:
			return fmt.Errorf("patch: symbol %s.%s must point to a func or interface variable, got %s", module, name, v.Elem().Type())
		}
		vals[name] = v.Elem()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.modules[module]
	if !ok {
		m = make(map[string]reflect.Value, len(vals))
		r.modules[module] = m
	}
	for name, v := range vals {
		m[name] = v
	}
	return nil
}

// MustRegister is like Register but panics on error. Intended for init().
func (r *Registry) MustRegister(module string, symbols map[string]any) {
	if err := r.Register(module, symbols); err != nil {
		panic(err)
	}
}

// Modules returns the registered module paths in sorted order.
func (r *Registry) Modules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.modules))
	for m := range r.modules {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the current value of module.name.
func (r *Registry) Lookup(module, name string) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	slot, err := r.slot(module, name)
	if err != nil {
		return nil, err
	}
	return slot.Interface(), nil
}

func (r *Registry) slot(module, name string) (reflect.Value, error) {
	m, ok := r.modules[module]
	if !ok {
		return reflect.Value{}, &ModuleLookupError{Module: module}
	}
	slot, ok := m[name]
	if !ok {
		return reflect.Value{}, &AttributeNotFoundError{Module: module, Name: name}
	}
	return slot, nil
}

// Patch replaces module.name with replacement.
//
// The checks run in order: the module must be registered, the name must
// exist, the replacement must be a non-nil function. When the current value
// is an ordinary function its parameter count must match the replacement's.
// Finally the replacement must be assignable to the variable's type. Nothing
// is changed when any check fails.
func (r *Registry) Patch(module, name string, replacement any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, err := r.slot(module, name)
	if err != nil {
		return err
	}

	rv := reflect.ValueOf(replacement)
	if !rv.IsValid() || rv.Kind() != reflect.Func || rv.IsNil() {
		return &NotCallableError{Type: fmt.Sprintf("%T", replacement)}
	}

	orig := slot
	if orig.Kind() == reflect.Interface && !orig.IsNil() {
		orig = orig.Elem()
	}
	if orig.Kind() == reflect.Func && orig.Type().NumIn() != rv.Type().NumIn() {
		return &SignatureMismatchError{Name: name, Original: orig.Type().String(), Got: rv.Type().String()}
	}

	switch {
	case rv.Type().AssignableTo(slot.Type()):
	case slot.Kind() == reflect.Func && rv.Type().ConvertibleTo(slot.Type()):
		rv = rv.Convert(slot.Type())
	default:
		return &SignatureMismatchError{Name: name, Original: slot.Type().String(), Got: rv.Type().String()}
	}

	slot.Set(rv)
	return nil
}

// Default is the process-wide registry used by the package level helpers.
var Default = NewRegistry()

// Register adds symbols to the Default registry.
func Register(module string, symbols map[string]any) error {
	return Default.Register(module, symbols)
}

// MustRegister adds symbols to the Default registry and panics on error.
func MustRegister(module string, symbols map[string]any) {
	Default.MustRegister(module, symbols)
}

// Patch replaces module.name in the Default registry.
func Patch(module, name string, replacement any) error {
	return Default.Patch(module, name, replacement)
}

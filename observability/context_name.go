package observability

import "reflect"

// ContextName identifies where a log record comes from. It is one of Name,
// TypeOf or InstanceOf; a nil ContextName means no context.
type ContextName interface {
	contextName() string
}

// Name is an explicit context string.
type Name string

func (n Name) contextName() string { return string(n) }

type typeTag struct {
	t reflect.Type
}

func (t typeTag) contextName() string { return typeName(t.t) }

// TypeOf tags a context with the declared name of T.
func TypeOf[T any]() ContextName {
	return typeTag{t: reflect.TypeOf((*T)(nil)).Elem()}
}

// InstanceOf tags a context with the declared name of v's dynamic type.
func InstanceOf(v any) ContextName {
	if v == nil {
		return nil
	}
	return typeTag{t: reflect.TypeOf(v)}
}

// ResolveContextName turns a ContextName into the string written to records.
func ResolveContextName(name ContextName) string {
	if name == nil {
		return ""
	}
	return name.contextName()
}

func typeName(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}

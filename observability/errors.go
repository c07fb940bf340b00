package observability

import (
	"reflect"
	"strings"

	"go.uber.org/zap"
)

// StackTracer is implemented by errors that carry the stack where they were created.
type StackTracer interface {
	StackTrace() string
}

// ErrorNamer lets an error choose the name written under the "error" key.
type ErrorNamer interface {
	ErrorName() string
}

// genericErrors are stdlib error types that carry nothing but a message.
var genericErrors = map[string]bool{
	"errors.errorString": true,
	"errors.joinError":   true,
	"fmt.wrapError":      true,
	"fmt.wrapErrors":     true,
}

type stackError struct {
	err   error
	stack string
}

func (e *stackError) Error() string      { return e.err.Error() }
func (e *stackError) Unwrap() error      { return e.err }
func (e *stackError) StackTrace() string { return e.stack }

// WithStack annotates err with the stack of its caller. Errors that already
// carry a stack are returned as is.
func WithStack(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(StackTracer); ok {
		return err
	}
	return &stackError{err: err, stack: captureStack(1)}
}

// SplitStack returns the error to describe and the stack it carries, if any.
// Errors created by WithStack are unwrapped to the error they annotate.
func SplitStack(err error) (error, string) {
	if se, ok := err.(*stackError); ok {
		return se.err, se.stack
	}
	if st, ok := err.(StackTracer); ok {
		return err, st.StackTrace()
	}
	return err, ""
}

// ErrorName returns the kind name of err.
func ErrorName(err error) string {
	if err == nil {
		return ""
	}
	err, _ = SplitStack(err)
	if n, ok := err.(ErrorNamer); ok {
		return n.ErrorName()
	}
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" || genericErrors[t.PkgPath()+"."+t.Name()] {
		return "Error"
	}
	return t.Name()
}

// ErrorFields rewrites err into the fields of an error record: its name, its
// message and any extra data the error exposes.
func ErrorFields(err error) Fields {
	inner, _ := SplitStack(err)
	fields := Fields{
		"error": ErrorName(err),
		"msg":   err.Error(),
	}
	EachStructField(inner, func(name string, value any) {
		fields[name] = value
	})
	if f, ok := inner.(Fielder); ok {
		for k, v := range f.LogFields() {
			fields[k] = v
		}
	}
	return fields
}

// EachStructField calls fn for every exported field of v in declaration order.
// v must be a struct or a pointer to one; anything else yields no calls. Field
// names follow json tags and fields tagged "-" are skipped.
func EachStructField(v any, fn func(name string, value any)) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Name
		if tag, ok := sf.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		fn(name, rv.Field(i).Interface())
	}
}

// StructFields collects the exported fields of v. See EachStructField.
func StructFields(v any) Fields {
	var fields Fields
	EachStructField(v, func(name string, value any) {
		if fields == nil {
			fields = Fields{}
		}
		fields[name] = value
	})
	return fields
}

func captureStack(skip int) string {
	return zap.StackSkip("", skip+1).String
}

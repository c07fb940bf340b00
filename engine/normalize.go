package engine

import (
	"fmt"
	"reflect"
	"slices"
	"sort"

	"go.uber.org/zap"

	"github.com/upb/logbridge/observability"
)

// Record keys with a fixed meaning.
const (
	ContextKey = "context"
	MessageKey = "msg"
	TraceKey   = "trace"
	ValueKey   = "value"
)

// Record is one normalized log call. Fields never holds a context key.
type Record struct {
	Context string
	Message string
	Fields  []zap.Field
}

// ZapFields returns the fields to write, context first.
func (r Record) ZapFields() []zap.Field {
	out := make([]zap.Field, 0, len(r.Fields)+1)
	if r.Context == "" {
		out = append(out, zap.Skip())
	} else {
		out = append(out, zap.String(ContextKey, r.Context))
	}
	return append(out, r.Fields...)
}

// Normalize turns any payload into a Record.
//
// Strings become the message. Maps with string keys are merged key by key.
// Anything else contributes its exported struct fields; errors add their
// message and stack, a Fielder adds its LogFields, and values with nothing to
// enumerate are kept under "value". A non-empty trace is added under "trace".
func Normalize(payload any, context, trace string) Record {
	p := toPayload(payload)
	if trace != "" {
		p.set(TraceKey, trace)
	}
	p.remove(ContextKey)

	rec := Record{Context: context}
	if msg, ok := p.take(MessageKey); ok {
		if s, isString := msg.(string); isString {
			rec.Message = s
		} else {
			rec.Message = fmt.Sprint(msg)
		}
	}
	rec.Fields = p.fields()
	return rec
}

type shape int

const (
	shapeText shape = iota
	shapePlain
	shapeObject
)

func classify(v any) shape {
	switch v.(type) {
	case string:
		return shapeText
	case observability.Fields, map[string]any:
		return shapePlain
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.Kind() == reflect.String:
		return shapeText
	case rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String:
		return shapePlain
	}
	return shapeObject
}

func toPayload(v any) *payload {
	p := newPayload()
	switch classify(v) {
	case shapeText:
		p.set(MessageKey, reflect.ValueOf(v).String())
	case shapePlain:
		rv := reflect.ValueOf(v)
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		for _, k := range keys {
			p.set(k.String(), rv.MapIndex(k).Interface())
		}
	case shapeObject:
		objectFields(p, v)
	}
	return p
}

func objectFields(p *payload, v any) {
	if v == nil {
		return
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return
	}
	target := v
	var message, stack string
	err, isErr := v.(error)
	if isErr {
		target, stack = observability.SplitStack(err)
		message = err.Error()
	}

	observability.EachStructField(target, p.set)
	if isErr {
		p.set("message", message)
		if stack != "" {
			p.set("stack", stack)
		}
	}
	if f, ok := target.(observability.Fielder); ok {
		extra := f.LogFields()
		keys := make([]string, 0, len(extra))
		for k := range extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			p.set(k, extra[k])
		}
	}
	if len(p.keys) == 0 {
		p.set(ValueKey, v)
	}
}

// payload is an insertion-ordered field set.
type payload struct {
	keys   []string
	values map[string]any
}

func newPayload() *payload {
	return &payload{values: make(map[string]any)}
}

func (p *payload) set(key string, value any) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

func (p *payload) take(key string) (any, bool) {
	v, ok := p.values[key]
	if ok {
		p.remove(key)
	}
	return v, ok
}

func (p *payload) remove(key string) {
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	p.keys = slices.DeleteFunc(p.keys, func(k string) bool { return k == key })
}

func (p *payload) fields() []zap.Field {
	fields := make([]zap.Field, 0, len(p.keys))
	for _, k := range p.keys {
		fields = append(fields, zap.Any(k, p.values[k]))
	}
	return fields
}

func sortedFields(m map[string]any) []zap.Field {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, zap.Any(k, m[k]))
	}
	return fields
}

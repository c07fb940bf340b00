package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	"github.com/upb/logbridge/observability"
)

type order struct {
	ID     string `json:"id"`
	Amount int    `json:"amount"`
	Note   string `json:"-"`
	secret string
}

type labelled struct {
	Name string
}

func (labelled) LogFields() observability.Fields {
	return observability.Fields{"Name": "override", "extra": true}
}

type timeoutError struct {
	Op string
}

func (e *timeoutError) Error() string { return e.Op + " timed out" }

type stringish string

func fieldKeys(rec Record) []string {
	keys := make([]string, 0, len(rec.Fields))
	for _, f := range rec.Fields {
		keys = append(keys, f.Key)
	}
	return keys
}

func fieldMap(rec Record) map[string]interface{} {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range rec.Fields {
		f.AddTo(enc)
	}
	return enc.Fields
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		payload  any
		context  string
		trace    string
		wantMsg  string
		wantKeys []string
		want     map[string]interface{}
	}{
		{
			name:     "string becomes message",
			payload:  "hello",
			context:  "Svc",
			wantMsg:  "hello",
			wantKeys: []string{},
			want:     map[string]interface{}{},
		},
		{
			name:     "named string type",
			payload:  stringish("hi"),
			wantMsg:  "hi",
			wantKeys: []string{},
			want:     map[string]interface{}{},
		},
		{
			name:     "fields merged in key order",
			payload:  observability.Fields{"b": 2, "a": "x", "msg": "m"},
			wantMsg:  "m",
			wantKeys: []string{"a", "b"},
			want:     map[string]interface{}{"a": "x", "b": int64(2)},
		},
		{
			name:     "context key stripped from payload",
			payload:  map[string]any{"context": "other", "k": "v"},
			context:  "Svc",
			wantKeys: []string{"k"},
			want:     map[string]interface{}{"k": "v"},
		},
		{
			name:     "map with string keys",
			payload:  map[string]int{"z": 1},
			wantKeys: []string{"z"},
			want:     map[string]interface{}{"z": int64(1)},
		},
		{
			name:     "struct fields in declaration order",
			payload:  &order{ID: "o-1", Amount: 3, Note: "n", secret: "s"},
			wantKeys: []string{"id", "amount"},
			want:     map[string]interface{}{"id": "o-1", "amount": int64(3)},
		},
		{
			name:     "fielder overlays",
			payload:  labelled{Name: "orig"},
			wantKeys: []string{"Name", "extra"},
			want:     map[string]interface{}{"Name": "override", "extra": true},
		},
		{
			name:     "generic error",
			payload:  errors.New("boom"),
			wantKeys: []string{"message"},
			want:     map[string]interface{}{"message": "boom"},
		},
		{
			name:     "typed error keeps fields",
			payload:  &timeoutError{Op: "dial"},
			wantKeys: []string{"Op", "message"},
			want:     map[string]interface{}{"Op": "dial", "message": "dial timed out"},
		},
		{
			name:     "scalar kept under value",
			payload:  42,
			wantKeys: []string{"value"},
			want:     map[string]interface{}{"value": int64(42)},
		},
		{
			name:     "nil payload",
			payload:  nil,
			wantKeys: []string{},
			want:     map[string]interface{}{},
		},
		{
			name:     "typed nil pointer",
			payload:  (*order)(nil),
			wantKeys: []string{},
			want:     map[string]interface{}{},
		},
		{
			name:     "trace appended",
			payload:  "m",
			trace:    "t",
			wantMsg:  "m",
			wantKeys: []string{"trace"},
			want:     map[string]interface{}{"trace": "t"},
		},
		{
			name:     "non-string msg is stringified",
			payload:  observability.Fields{"msg": 7},
			wantMsg:  "7",
			wantKeys: []string{},
			want:     map[string]interface{}{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Normalize(tt.payload, tt.context, tt.trace)

			assert.Equal(t, tt.context, rec.Context)
			assert.Equal(t, tt.wantMsg, rec.Message)
			assert.Equal(t, tt.wantKeys, fieldKeys(rec))
			assert.Equal(t, tt.want, fieldMap(rec))
		})
	}
}

func TestNormalize_ErrorStack(t *testing.T) {
	err := observability.WithStack(&timeoutError{Op: "read"})

	rec := Normalize(err, "", "")

	assert.Equal(t, []string{"Op", "message", "stack"}, fieldKeys(rec))
	assert.Contains(t, fieldMap(rec)["stack"], "TestNormalize_ErrorStack")
}

func TestRecord_ZapFields(t *testing.T) {
	withContext := Record{Context: "Svc"}.ZapFields()
	assert.Equal(t, ContextKey, withContext[0].Key)

	without := Record{}.ZapFields()
	assert.Equal(t, zapcore.SkipType, without[0].Type)
}

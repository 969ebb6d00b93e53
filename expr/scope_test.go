package expr

import (
	"reflect"
	"testing"
)

func newScope(t *testing.T) *Scope {
	t.Helper()
	s, err := NewScope()
	if err != nil {
		t.Fatalf("new scope: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestCompileExpressionReturnsValue(t *testing.T) {
	s := newScope(t)
	s.Set("a", 2)
	e, err := s.Compile("a * 21")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	got, err := s.Eval(e, nil)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got != 42.0 {
		t.Errorf("got %v, want 42", got)
	}
}

func TestCompileStatementMutatesScope(t *testing.T) {
	s := newScope(t)
	e, err := s.Compile("count = (count or 0) + 1")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := s.Eval(e, nil); err != nil {
			t.Fatalf("eval: %v", err)
		}
	}
	if got := s.Get("count"); got != 3.0 {
		t.Errorf("count = %v, want 3", got)
	}
}

func TestEvalLocals(t *testing.T) {
	s := newScope(t)
	e, err := s.Compile("event.type .. '@' .. event.clientX")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	got, err := s.Eval(e, map[string]any{
		"event": map[string]any{"type": "touchend", "clientX": 12.0},
	})
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got != "touchend@12" {
		t.Errorf("got %q, want touchend@12", got)
	}
}

func TestCompileError(t *testing.T) {
	s := newScope(t)
	if _, err := s.Compile("count = = 1"); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestEvalRuntimeError(t *testing.T) {
	s := newScope(t)
	e, err := s.Compile("missing.field")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, err := s.Eval(e, nil); err == nil {
		t.Fatalf("expected runtime error indexing nil")
	}
}

func TestValuesConversion(t *testing.T) {
	s := newScope(t)
	s.Set("list", []any{"a", "b"})
	s.Set("flag", true)
	got := s.Values([]string{"list", "flag", "unset"})
	want := map[string]any{"list": []any{"a", "b"}, "flag": true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Values = %v, want %v", got, want)
	}
}

func TestClosedScope(t *testing.T) {
	s, err := NewScope()
	if err != nil {
		t.Fatalf("new scope: %v", err)
	}
	s.Close()
	if _, err := s.Compile("1"); err != ErrClosed {
		t.Errorf("Compile after Close = %v, want ErrClosed", err)
	}
}

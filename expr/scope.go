// Package expr evaluates the handler expressions written in a page's
// fast-click attributes, such as `count = count + 1` or `select(event.clientX)`.
// Expressions are Lua chunks run against a Scope of named values.
package expr

import (
	"errors"
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"
)

var ErrClosed = errors.New("scope closed")

// Scope holds the variables expressions read and write. A Scope wraps one Lua
// state and must only be used from one goroutine at a time.
type Scope struct {
	L *lua.LState
}

func NewScope() (*Scope, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, pair := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(pair.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(pair.name)); err != nil {
			L.Close()
			return nil, fmt.Errorf("open %s library: %w", pair.name, err)
		}
	}
	return &Scope{L: L}, nil
}

func (s *Scope) Close() {
	if s.L != nil {
		s.L.Close()
		s.L = nil
	}
}

func (s *Scope) Set(name string, v any) {
	if s.L == nil {
		return
	}
	s.L.SetGlobal(name, toLua(s.L, v))
}

// Get returns a variable converted to Go: nil, bool, float64, string,
// []any or map[string]any.
func (s *Scope) Get(name string) any {
	if s.L == nil {
		return nil
	}
	return fromLua(s.L.GetGlobal(name), 0)
}

// Values returns the named variables that are set, for display.
func (s *Scope) Values(names []string) map[string]any {
	out := make(map[string]any, len(names))
	for _, n := range names {
		if v := s.Get(n); v != nil {
			out[n] = v
		}
	}
	return out
}

// Expr is a compiled expression bound to the Scope that compiled it.
type Expr struct {
	Source string
	fn     *lua.LFunction
}

// Compile accepts either an expression, whose value becomes the result, or a
// statement block.
func (s *Scope) Compile(source string) (*Expr, error) {
	if s.L == nil {
		return nil, ErrClosed
	}
	fn, err := s.L.LoadString("return " + source)
	if err != nil {
		fn, err = s.L.LoadString(source)
		if err != nil {
			return nil, fmt.Errorf("compile %q: %w", source, err)
		}
	}
	return &Expr{Source: source, fn: fn}, nil
}

// Eval sets locals as variables and runs e, returning its first result.
func (s *Scope) Eval(e *Expr, locals map[string]any) (any, error) {
	if s.L == nil {
		return nil, ErrClosed
	}
	keys := make([]string, 0, len(locals))
	for k := range locals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s.L.SetGlobal(k, toLua(s.L, locals[k]))
	}

	s.L.Push(e.fn)
	if err := s.L.PCall(0, 1, nil); err != nil {
		return nil, fmt.Errorf("eval %q: %w", e.Source, err)
	}
	ret := s.L.Get(-1)
	s.L.Pop(1)
	return fromLua(ret, 0), nil
}

func toLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float32:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []any:
		t := L.NewTable()
		for i, item := range val {
			t.RawSetInt(i+1, toLua(L, item))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		for k, item := range val {
			t.RawSetString(k, toLua(L, item))
		}
		return t
	case lua.LValue:
		return val
	default:
		return lua.LString(fmt.Sprint(val))
	}
}

const maxDepth = 16

func fromLua(v lua.LValue, depth int) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		return float64(val)
	case lua.LString:
		return string(val)
	case *lua.LTable:
		if depth >= maxDepth {
			return nil
		}
		if n := val.Len(); n > 0 {
			out := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				out = append(out, fromLua(val.RawGetInt(i), depth+1))
			}
			return out
		}
		out := make(map[string]any)
		val.ForEach(func(k, item lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				out[string(ks)] = fromLua(item, depth+1)
			}
		})
		return out
	}
	return nil
}

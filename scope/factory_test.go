package scope

import (
	"errors"
	"testing"
)

func TestFactory_Wrap_Idempotent(t *testing.T) {
	f := NewFactory()
	root := f.Wrap(map[string]any{"a": 1})

	if got := f.Wrap(root); got != root {
		t.Errorf("Wrap(scope) = %p, want %p", got, root)
	}

	if got := Wrap(root); got != root {
		t.Errorf("package Wrap(scope) = %p, want %p", got, root)
	}
}

func TestFactory_WrapChild_ParentRequired(t *testing.T) {
	for _, candidate := range []any{nil, map[string]any{}, Wrap(nil)} {
		s, err := NewFactory().WrapChild(nil, candidate)
		if !errors.Is(err, ErrParentRequired) {
			t.Errorf("WrapChild(nil, %v) error = %v, want %v", candidate, err, ErrParentRequired)
		}

		if s != nil {
			t.Errorf("WrapChild(nil, %v) = %v, want nil", candidate, s)
		}
	}

	if _, err := WrapChild(nil, 1); !errors.Is(err, ErrParentRequired) {
		t.Errorf("package WrapChild error = %v, want %v", err, ErrParentRequired)
	}
}

func TestFactory_WrapChild_ExistingScopeNotReparented(t *testing.T) {
	f := NewFactory()
	a := f.Wrap(map[string]any{"x": "a"})
	b := f.Wrap(map[string]any{"y": "b"})

	got, err := f.WrapChild(a, b)
	if err != nil {
		t.Fatal(err)
	}

	if got != b {
		t.Fatalf("WrapChild(a, b) = %p, want %p", got, b)
	}

	if got.Parent() != nil {
		t.Error("existing scope was reparented")
	}

	if v, _ := got.Get("x"); v != nil {
		t.Errorf("Get(x) = %v, want nil", v)
	}
}

func TestFactory_WrapChild(t *testing.T) {
	f := NewFactory()
	root := f.Wrap(map[string]any{})

	child, err := f.WrapChild(root, "model")
	if err != nil {
		t.Fatal(err)
	}

	if child.Parent() != root || child.Model() != "model" || child.Depth() != 1 {
		t.Errorf("child = {parent %p, model %v, depth %d}; want {%p, model, 1}",
			child.Parent(), child.Model(), child.Depth(), root)
	}

	if !sameMap(child.Storage(), root.Storage()) {
		t.Error("child storage differs from parent storage")
	}
}

func TestFactory_WithStorage(t *testing.T) {
	seed := Storage{"theme": "dark"}
	f := NewFactory(WithStorage(seed))

	s := f.Wrap(nil)

	if !sameMap(s.Storage(), seed) {
		t.Fatal("root does not use the supplied storage")
	}

	if _, ok := seed[PartialsKey].(Partials); !ok {
		t.Error("partials slot not added to supplied storage")
	}

	existing := Partials{"p": 1}
	s = NewFactory(WithStorage(Storage{PartialsKey: existing})).Wrap(nil)

	if s.Partials()["p"] != 1 {
		t.Error("existing partials slot replaced")
	}
}

func TestFactory_WithAccessor(t *testing.T) {
	reg := NewRegistry()
	Register(reg, "double", func(n int) any { return n * 2 })

	f := NewFactory(WithAccessor(NewAccessor(reg)), WithAccessor(nil))
	root := f.Wrap(map[string]any{"n": 21})

	got, err := root.Child(21).Get("double")
	if err != nil || got != 42 {
		t.Errorf("Get(double) = %v, %v; want 42, nil", got, err)
	}
}

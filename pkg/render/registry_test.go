package render_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/render"
)

type stubPresenter struct {
	name string
}

func (s stubPresenter) Name() string { return s.name }

func (s stubPresenter) Present(context.Context, render.Snapshot, render.Options) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := render.NewRegistry()

	if err := registry.Register(stubPresenter{name: "html"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(stubPresenter{name: "html"}); err == nil {
		t.Fatal("duplicate registration should fail")
	}
	if err := registry.Register(stubPresenter{}); err == nil {
		t.Fatal("unnamed presenter should fail")
	}

	presenter, err := registry.Get("html")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if presenter.Name() != "html" {
		t.Fatalf("got %q, want html", presenter.Name())
	}

	if _, err := registry.Get("missing"); err == nil {
		t.Fatal("missing presenter should fail")
	}
}

func TestRegistry_ListAndHas(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(stubPresenter{name: "prompt"})
	registry.MustRegister(stubPresenter{name: "html"})

	if diff := cmp.Diff([]string{"html", "prompt"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if !registry.Has("html") || registry.Has("json") {
		t.Fatal("Has reported wrong membership")
	}
}

package radar

import (
	"errors"
	"testing"
)

func TestToggleAttachBuildsButton(t *testing.T) {
	tg := NewToggle("radar")
	m := newFakeMap()

	h, err := tg.Attach(m)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if h.ID == "" {
		t.Error("expected handle id")
	}
	if h.Container.ClassName != ControlClassName {
		t.Errorf("class = %q, want %q", h.Container.ClassName, ControlClassName)
	}
	if h.Container.Button.Label() != ButtonLabel {
		t.Errorf("label = %q, want %q", h.Container.Button.Label(), ButtonLabel)
	}
	if !h.Container.Mounted() {
		t.Error("expected container to be mounted")
	}
	if !tg.Visible() || h.Container.Button.Emphasis() != EmphasisFull {
		t.Error("expected toggle to start visible with full emphasis")
	}
}

func TestToggleFlipsLayerAndButtonTogether(t *testing.T) {
	tg := NewToggle("radar")
	m := newFakeMap()
	h, err := tg.Attach(m)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	btn := h.Container.Button

	if err := btn.Click(); err != nil {
		t.Fatalf("Click: %v", err)
	}
	if tg.Visible() {
		t.Error("expected hidden after one click")
	}
	if got := m.visibility("radar"); got != "none" {
		t.Errorf("visibility = %v, want none", got)
	}
	if btn.Emphasis() != EmphasisReduced || btn.Emphasis().Opacity() != 0.5 {
		t.Errorf("emphasis = %v, want reduced", btn.Emphasis())
	}

	if err := tg.Toggle(); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !tg.Visible() {
		t.Error("two toggles should restore visibility")
	}
	if got := m.visibility("radar"); got != "visible" {
		t.Errorf("visibility = %v, want visible", got)
	}
	if btn.Emphasis() != EmphasisFull || btn.Emphasis().Opacity() != 1.0 {
		t.Errorf("emphasis = %v, want full", btn.Emphasis())
	}
}

func TestToggleEmphasisMirrorsVisibility(t *testing.T) {
	tg := NewToggle("radar")
	m := newFakeMap()
	h, err := tg.Attach(m)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}

	for i := 0; i < 7; i++ {
		if err := tg.Toggle(); err != nil {
			t.Fatalf("Toggle %d: %v", i, err)
		}
		full := h.Container.Button.Emphasis() == EmphasisFull
		if full != tg.Visible() {
			t.Fatalf("step %d: emphasis full=%v but visible=%v", i, full, tg.Visible())
		}
	}
}

func TestToggleKeepsStateWhenMapRejects(t *testing.T) {
	tg := NewToggle("radar")
	m := newFakeMap()
	m.failSetOn = "radar"
	h, err := tg.Attach(m)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}

	if err := tg.Toggle(); err == nil {
		t.Fatal("expected error from rejected layout update")
	}
	if !tg.Visible() || h.Container.Button.Emphasis() != EmphasisFull {
		t.Error("state changed despite map rejecting the update")
	}
}

func TestToggleLifecycleMisuse(t *testing.T) {
	t.Run("attach without map", func(t *testing.T) {
		if _, err := NewToggle("radar").Attach(nil); !errors.Is(err, ErrLifecycleMisuse) {
			t.Fatalf("expected ErrLifecycleMisuse, got %v", err)
		}
	})

	t.Run("attach with typed nil map", func(t *testing.T) {
		var m *fakeMap
		tg := NewToggle("radar")
		if _, err := tg.Attach(m); !errors.Is(err, ErrLifecycleMisuse) {
			t.Fatalf("expected ErrLifecycleMisuse, got %v", err)
		}
		if err := tg.Toggle(); !errors.Is(err, ErrLifecycleMisuse) {
			t.Fatalf("expected ErrLifecycleMisuse, got %v", err)
		}
	})

	t.Run("detach before attach", func(t *testing.T) {
		if err := NewToggle("radar").Detach(); !errors.Is(err, ErrLifecycleMisuse) {
			t.Fatalf("expected ErrLifecycleMisuse, got %v", err)
		}
	})

	t.Run("toggle before attach", func(t *testing.T) {
		if err := NewToggle("radar").Toggle(); !errors.Is(err, ErrLifecycleMisuse) {
			t.Fatalf("expected ErrLifecycleMisuse, got %v", err)
		}
	})

	t.Run("attach twice", func(t *testing.T) {
		tg := NewToggle("radar")
		if _, err := tg.Attach(newFakeMap()); err != nil {
			t.Fatalf("Attach: %v", err)
		}
		if _, err := tg.Attach(newFakeMap()); !errors.Is(err, ErrLifecycleMisuse) {
			t.Fatalf("expected ErrLifecycleMisuse, got %v", err)
		}
	})

	t.Run("toggle after detach", func(t *testing.T) {
		tg := NewToggle("radar")
		m := newFakeMap()
		h, err := tg.Attach(m)
		if err != nil {
			t.Fatalf("Attach: %v", err)
		}
		if err := tg.Detach(); err != nil {
			t.Fatalf("Detach: %v", err)
		}
		if h.Container.Mounted() {
			t.Error("container still mounted after detach")
		}

		if err := tg.Toggle(); !errors.Is(err, ErrLifecycleMisuse) {
			t.Fatalf("expected ErrLifecycleMisuse, got %v", err)
		}
		if err := h.Container.Button.Click(); !errors.Is(err, ErrLifecycleMisuse) {
			t.Fatalf("expected ErrLifecycleMisuse from click, got %v", err)
		}
		if !tg.Visible() {
			t.Error("toggle after detach mutated visibility")
		}
		if m.visibility("radar") != nil {
			t.Error("toggle after detach touched the map")
		}
	})

	t.Run("detach twice", func(t *testing.T) {
		tg := NewToggle("radar")
		if _, err := tg.Attach(newFakeMap()); err != nil {
			t.Fatalf("Attach: %v", err)
		}
		if err := tg.Detach(); err != nil {
			t.Fatalf("Detach: %v", err)
		}
		if err := tg.Detach(); !errors.Is(err, ErrLifecycleMisuse) {
			t.Fatalf("expected ErrLifecycleMisuse, got %v", err)
		}
	})
}

package keys

import (
	"context"
	"errors"
	"testing"
)

func TestEnvProvider_SelectAndReset(t *testing.T) {
	p := NewEnvProvider([]string{"key-a", "key-b"})

	if p.HasSelected() {
		t.Fatal("fresh provider reports a selection")
	}
	if _, err := p.Selected(); !errors.Is(err, ErrNoKey) {
		t.Fatalf("Selected() before Select error = %v, want ErrNoKey", err)
	}

	key, err := p.Select(context.Background())
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if key != "key-a" {
		t.Errorf("Select() = %q, want key-a", key)
	}
	if !p.HasSelected() {
		t.Error("HasSelected() = false after Select")
	}

	// invalidation rotates to the next key
	p.Reset()
	if p.HasSelected() {
		t.Error("HasSelected() = true after Reset")
	}
	key, err = p.Select(context.Background())
	if err != nil {
		t.Fatalf("Select() after Reset error = %v", err)
	}
	if key != "key-b" {
		t.Errorf("Select() after Reset = %q, want key-b", key)
	}

	// rotation wraps around
	p.Reset()
	key, _ = p.Select(context.Background())
	if key != "key-a" {
		t.Errorf("Select() after second Reset = %q, want key-a", key)
	}
}

func TestEnvProvider_Empty(t *testing.T) {
	p := NewEnvProvider(nil)

	if _, err := p.Select(context.Background()); !errors.Is(err, ErrNoKey) {
		t.Fatalf("Select() error = %v, want ErrNoKey", err)
	}
	if p.HasSelected() {
		t.Error("empty provider reports a selection")
	}
	if got := p.All(); len(got) != 0 {
		t.Errorf("All() = %v, want empty", got)
	}
}

func TestEnvProvider_AllReturnsCopy(t *testing.T) {
	p := NewEnvProvider([]string{"key-a", "key-b"})

	all := p.All()
	all[0] = "mutated"

	if got := p.All()[0]; got != "key-a" {
		t.Errorf("All() exposed internal slice, got %q", got)
	}
}

package memkv

import (
	"context"
	"testing"
)

func TestGetSetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, ok, err := s.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || string(got) != "v1" {
		t.Fatalf("get: %q ok=%v err=%v", got, ok, err)
	}

	// Overwrite
	if err := s.Set(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, _, _ = s.Get(ctx, "k")
	if string(got) != "v2" {
		t.Fatalf("overwrite lost: %q", got)
	}
}

func TestValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	s := New()

	in := []byte("abc")
	s.Set(ctx, "k", in)
	in[0] = 'X'

	got, _, _ := s.Get(ctx, "k")
	if string(got) != "abc" {
		t.Fatalf("store aliased caller slice: %q", got)
	}
	got[0] = 'Y'
	again, _, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("store leaked internal slice: %q", again)
	}
}

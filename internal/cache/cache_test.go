package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	a := Key("ab", "c")
	b := Key("a", "bc")
	if a == b {
		t.Errorf("expected distinct keys for different part boundaries, both %s", a)
	}

	if Key("x", "y") != Key("x", "y") {
		t.Error("expected Key to be deterministic")
	}

	if !strings.HasPrefix(a, "enginetools-v1-") {
		t.Errorf("expected versioned prefix, got %s", a)
	}
}

func TestFileDigest(t *testing.T) {
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.pgn")
	p2 := filepath.Join(dir, "b.pgn")
	if err := os.WriteFile(p1, []byte("1. e4 e5 1-0"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p2, []byte("1. d4 d5 0-1"), 0644); err != nil {
		t.Fatal(err)
	}

	d1, err := FileDigest(p1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	d2, err := FileDigest(p2)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(d1) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(d1))
	}
	if d1 == d2 {
		t.Error("expected different digests for different content")
	}

	if _, err := FileDigest(filepath.Join(dir, "missing.pgn")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("k"); found {
		t.Fatal("expected miss on empty cache")
	}

	value := []byte("v1")
	if err := c.Set("k", value, 0); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	value[0] = 'X'

	got, found := c.Get("k")
	if !found || string(got) != "v1" {
		t.Errorf("expected stored copy v1, got %q (found=%v)", got, found)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}

	_ = c.Delete("k")
	if _, found := c.Get("k"); found {
		t.Error("expected miss after delete")
	}

	_ = c.Set("a", []byte("1"), 0)
	_ = c.Set("b", []byte("2"), 0)
	_ = c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected empty cache after clear, got %d", c.Len())
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("k", []byte("v"), time.Millisecond)

	time.Sleep(20 * time.Millisecond)

	if _, found := c.Get("k"); found {
		t.Error("expected expired entry to miss")
	}
}

func TestDiskCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c := NewDiskCache(dir, time.Hour)

	if _, found := c.Get("k"); found {
		t.Fatal("expected miss before first write")
	}

	if err := c.Set("k", []byte(`{"positions":3}`), 0); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got, found := c.Get("k")
	if !found || string(got) != `{"positions":3}` {
		t.Errorf("expected stored value, got %q (found=%v)", got, found)
	}

	// A fresh instance sees the same entry
	c2 := NewDiskCache(dir, time.Hour)
	if _, found := c2.Get("k"); !found {
		t.Error("expected entry to persist across instances")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected exactly one cache file, got %d", len(entries))
	}

	if err := c.Delete("k"); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := c.Delete("k"); err != nil {
		t.Errorf("expected deleting a missing entry to succeed, got %v", err)
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}

	now = now.Add(30 * time.Minute)
	if _, found := c.Get("k"); !found {
		t.Error("expected hit before ttl")
	}

	now = now.Add(time.Hour)
	if _, found := c.Get("k"); found {
		t.Error("expected miss after ttl")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expected expired entry file to be removed")
	}
}

func TestDiskCache_CorruptEntry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	if err := os.WriteFile(c.path("k"), []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, found := c.Get("k"); found {
		t.Error("expected corrupt entry to miss")
	}
}

func TestLayeredCache(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Hour)

	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Drop the memory layer; the disk layer should serve and promote
	_ = c.memory.Clear()
	got, found := c.Get("k")
	if !found || string(got) != "v" {
		t.Fatalf("expected disk hit, got %q (found=%v)", got, found)
	}
	if _, found := c.memory.Get("k"); !found {
		t.Error("expected disk hit to be promoted to memory")
	}

	if err := c.Delete("k"); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expected miss after delete")
	}

	_ = c.Set("a", []byte("1"), 0)
	if err := c.Clear(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if _, found := c.Get("a"); found {
		t.Error("expected miss after clear")
	}
}

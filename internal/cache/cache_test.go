package cache

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDocumentKeyStable(t *testing.T) {
	a := DocumentKey("ARTICLE 1. Definitions")
	b := DocumentKey("ARTICLE 1. Definitions")
	if a != b {
		t.Error("same text must produce the same key")
	}
	if !strings.HasPrefix(a, "axiom:v1:") {
		t.Errorf("key missing version prefix: %q", a)
	}
	if a == DocumentKey("ARTICLE 1. Definitions.") {
		t.Error("a one-character edit must change the key")
	}
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("empty cache should miss")
	}

	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, found := c.Get("k")
	if !found || !bytes.Equal(val, []byte("v")) {
		t.Errorf("Get = %q, %v", val, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("deleted key should miss")
	}
}

func TestMemoryCacheClear(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	_ = c.Set("a", []byte("1"), 0)
	_ = c.Set("b", []byte("2"), 0)

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, found := c.Get("a"); found {
		t.Error("cleared cache should miss")
	}
}

func TestDiskCachePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	c1 := NewDiskCache(dir, time.Hour)
	if err := c1.Set("k", []byte("report"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	c2 := NewDiskCache(dir, time.Hour)
	val, found := c2.Get("k")
	if !found || !bytes.Equal(val, []byte("report")) {
		t.Errorf("Get from second instance = %q, %v", val, found)
	}
}

func TestDiskCacheExpiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	if err := c.Set("k", []byte("v"), -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(filepath.Join(dir, "k.json")); !os.IsNotExist(err) {
		t.Error("expired entry file should be removed")
	}
}

func TestDiskCacheDropsCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	if err := os.WriteFile(filepath.Join(dir, "k.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, found := c.Get("k"); found {
		t.Error("corrupt entry should miss")
	}
	if _, err := os.Stat(filepath.Join(dir, "k.json")); !os.IsNotExist(err) {
		t.Error("corrupt entry file should be removed")
	}
}

func TestLayeredCachePromotesDiskHit(t *testing.T) {
	dir := t.TempDir()

	// Seed disk only, then read through a fresh layered cache
	seed := NewDiskCache(dir, time.Hour)
	if err := seed.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("seed: %v", err)
	}

	l := NewLayeredCache(time.Minute, dir, time.Hour)
	val, found := l.Get("k")
	if !found || !bytes.Equal(val, []byte("v")) {
		t.Fatalf("Get = %q, %v", val, found)
	}

	// Remove the disk entry; the promoted copy must still answer
	if err := seed.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found := l.Get("k"); !found {
		t.Error("disk hit was not promoted to memory")
	}
}

func TestLayeredCacheWithoutDiskDir(t *testing.T) {
	l := NewLayeredCache(time.Minute, "", time.Hour)

	if err := l.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if val, found := l.Get("k"); !found || !bytes.Equal(val, []byte("v")) {
		t.Errorf("Get = %q, %v", val, found)
	}
	if err := l.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
}

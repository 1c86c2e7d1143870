package cache

import (
	"context"
	"testing"
	"time"
)

// backends that can be exercised without external services.
func localBackends(t *testing.T) map[string]Cache {
	t.Helper()
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() = %v", err)
	}
	mc, err := NewMemoryCache(16)
	if err != nil {
		t.Fatalf("NewMemoryCache() = %v", err)
	}
	return map[string]Cache{"file": fc, "memory": mc}
}

func TestCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	for name, c := range localBackends(t) {
		t.Run(name, func(t *testing.T) {
			defer c.Close()

			if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
				t.Errorf("Get(missing) = hit %v, err %v, want miss", hit, err)
			}

			if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
				t.Fatalf("Set() = %v", err)
			}
			data, hit, err := c.Get(ctx, "k")
			if err != nil || !hit {
				t.Fatalf("Get(k) = hit %v, err %v, want hit", hit, err)
			}
			if string(data) != "v" {
				t.Errorf("Get(k) = %q, want %q", data, "v")
			}

			if err := c.Delete(ctx, "k"); err != nil {
				t.Fatalf("Delete() = %v", err)
			}
			if _, hit, _ := c.Get(ctx, "k"); hit {
				t.Errorf("Get(k) after Delete = hit, want miss")
			}
			// Deleting again must not error.
			if err := c.Delete(ctx, "k"); err != nil {
				t.Errorf("Delete(missing) = %v, want nil", err)
			}
		})
	}
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	for name, c := range localBackends(t) {
		t.Run(name, func(t *testing.T) {
			defer c.Close()

			if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
				t.Fatalf("Set() = %v", err)
			}
			time.Sleep(5 * time.Millisecond)
			if _, hit, _ := c.Get(ctx, "k"); hit {
				t.Errorf("Get() after expiry = hit, want miss")
			}
		})
	}
}

func TestCache_ZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	for name, c := range localBackends(t) {
		t.Run(name, func(t *testing.T) {
			defer c.Close()

			if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
				t.Fatalf("Set() = %v", err)
			}
			if _, hit, _ := c.Get(ctx, "k"); !hit {
				t.Errorf("Get() with zero TTL = miss, want hit")
			}
		})
	}
}

func TestMemoryCache_Eviction(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(2)
	if err != nil {
		t.Fatalf("NewMemoryCache() = %v", err)
	}
	defer c.Close()

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	_ = c.Set(ctx, "c", []byte("3"), 0) // evicts the LRU entry "a"

	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Errorf("Get(a) = hit after eviction, want miss")
	}
	if _, hit, _ := c.Get(ctx, "c"); !hit {
		t.Errorf("Get(c) = miss, want hit")
	}
}

func TestNullCache_AlwaysMisses(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()

	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set() = %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Errorf("NullCache Get() = hit, want miss")
	}
}

func TestKeyer_Deterministic(t *testing.T) {
	k := NewDefaultKeyer()

	a := k.AnalysisKey("hash1", AnalysisKeyOpts{Entry: "main"})
	b := k.AnalysisKey("hash1", AnalysisKeyOpts{Entry: "main"})
	if a != b {
		t.Errorf("AnalysisKey not deterministic: %q vs %q", a, b)
	}
	if a == k.AnalysisKey("hash2", AnalysisKeyOpts{Entry: "main"}) {
		t.Errorf("AnalysisKey ignored the graph hash")
	}
	if a == k.AnalysisKey("hash1", AnalysisKeyOpts{Entry: "alt"}) {
		t.Errorf("AnalysisKey ignored the entry override")
	}
}

func TestKeyer_FormatsSeparateArtifacts(t *testing.T) {
	k := NewDefaultKeyer()
	svg := k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"})
	png := k.ArtifactKey("h", ArtifactKeyOpts{Format: "png"})
	if svg == png {
		t.Errorf("ArtifactKey collided across formats")
	}
}

func TestScopedKeyer_Prefixes(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "tenant:42:")

	got := scoped.GraphKey("h")
	want := "tenant:42:" + inner.GraphKey("h")
	if got != want {
		t.Errorf("GraphKey() = %q, want %q", got, want)
	}
}

func TestHash_Stable(t *testing.T) {
	a := Hash([]byte("payload"))
	b := Hash([]byte("payload"))
	if a != b {
		t.Errorf("Hash not deterministic")
	}
	if len(a) != 64 {
		t.Errorf("Hash length = %d, want 64 hex chars", len(a))
	}
	if a == Hash([]byte("other")) {
		t.Errorf("distinct payloads hashed identically")
	}
}

package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	testingclock "k8s.io/utils/clock/testing"
)

func TestMemory_SetGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Set(ctx, "lkg:predict:abc", []byte("positive"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok := m.Get(ctx, "lkg:predict:abc")
	if !ok {
		t.Fatal("Get() miss, want hit")
	}
	if string(got) != "positive" {
		t.Errorf("Get() = %q, want %q", got, "positive")
	}
}

func TestMemory_Miss(t *testing.T) {
	m := NewMemory()

	if _, ok := m.Get(context.Background(), "lkg:predict:missing"); ok {
		t.Error("Get() hit, want miss")
	}
}

func TestMemory_Expiry(t *testing.T) {
	fc := testingclock.NewFakeClock(time.Now())
	m := NewMemory(MemoryConfig{Clock: fc})
	ctx := context.Background()

	_ = m.Set(ctx, "lkg:predict:abc", []byte("positive"), time.Minute)

	fc.Step(59 * time.Second)
	if _, ok := m.Get(ctx, "lkg:predict:abc"); !ok {
		t.Error("Get() before expiry = miss, want hit")
	}

	fc.Step(2 * time.Second)
	if _, ok := m.Get(ctx, "lkg:predict:abc"); ok {
		t.Error("Get() after expiry = hit, want miss")
	}

	// Expired entry was evicted lazily.
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after lazy eviction", m.Len())
	}
}

func TestMemory_ZeroTTLStoresNothing(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Set(ctx, "lkg:predict:abc", []byte("x"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestMemory_Overwrite(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_ = m.Set(ctx, "lkg:predict:abc", []byte("old"), time.Minute)
	_ = m.Set(ctx, "lkg:predict:abc", []byte("new"), time.Minute)

	got, _ := m.Get(ctx, "lkg:predict:abc")
	if string(got) != "new" {
		t.Errorf("Get() = %q, want latest value", got)
	}
}

func TestMemory_Delete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_ = m.Set(ctx, "lkg:predict:abc", []byte("x"), time.Minute)
	if err := m.Delete(ctx, "lkg:predict:abc"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := m.Get(ctx, "lkg:predict:abc"); ok {
		t.Error("Get() after delete = hit, want miss")
	}
	// Deleting again is fine.
	if err := m.Delete(ctx, "lkg:predict:abc"); err != nil {
		t.Errorf("second Delete() error = %v", err)
	}
}

func TestMemory_RejectsInvalidKeys(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Set(ctx, "", []byte("x"), time.Minute); err != ErrInvalidKey {
		t.Errorf("Set(empty) error = %v, want ErrInvalidKey", err)
	}
	if err := m.Set(ctx, "bad\nkey", []byte("x"), time.Minute); err != ErrInvalidKey {
		t.Errorf("Set(newline) error = %v, want ErrInvalidKey", err)
	}
	long := strings.Repeat("k", MaxKeyLength+1)
	if err := m.Set(ctx, long, []byte("x"), time.Minute); err != ErrKeyTooLong {
		t.Errorf("Set(long) error = %v, want ErrKeyTooLong", err)
	}
}

package cache

import (
	"strings"
	"testing"
)

func TestDefaultKeyer_Deterministic(t *testing.T) {
	k := NewDefaultKeyer()

	input := map[string]any{"text": "great service", "lang": "en"}
	first, err := k.Key("predict", input)
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	second, err := k.Key("predict", map[string]any{"lang": "en", "text": "great service"})
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}

	if first != second {
		t.Errorf("keys differ for equal inputs: %q vs %q", first, second)
	}
	if !strings.HasPrefix(first, "lkg:predict:") {
		t.Errorf("Key() = %q, want lkg:predict: prefix", first)
	}
}

func TestDefaultKeyer_DistinguishesInputs(t *testing.T) {
	k := NewDefaultKeyer()

	a, _ := k.Key("predict", map[string]any{"text": "great"})
	b, _ := k.Key("predict", map[string]any{"text": "terrible"})
	if a == b {
		t.Error("distinct inputs produced the same key")
	}

	c, _ := k.Key("retrain", map[string]any{"text": "great"})
	if a == c {
		t.Error("distinct operation classes produced the same key")
	}
}

func TestDefaultKeyer_UnserializableInput(t *testing.T) {
	k := NewDefaultKeyer()

	if _, err := k.Key("predict", func() {}); err == nil {
		t.Error("Key(func) error = nil, want serialization error")
	}
}

func TestDefaultKeyer_PassesValidation(t *testing.T) {
	k := NewDefaultKeyer()

	key, err := k.Key("predict", map[string]any{"text": "hello"})
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	if err := ValidateKey(key); err != nil {
		t.Errorf("ValidateKey(%q) = %v", key, err)
	}
}

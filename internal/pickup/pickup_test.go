package pickup

import (
	"strings"
	"testing"
)

func TestAlphabetExcludesAmbiguousSymbols(t *testing.T) {
	if len(Alphabet) != 32 {
		t.Fatalf("alphabet has %d symbols, want 32", len(Alphabet))
	}
	for _, c := range "0O1I" {
		if strings.ContainsRune(Alphabet, c) {
			t.Errorf("alphabet contains ambiguous symbol %q", c)
		}
	}
}

func TestNewCodeFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := NewCode()
		if err != nil {
			t.Fatalf("NewCode: %v", err)
		}
		if len(code) != CodeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), CodeLength)
		}
		for j := 0; j < len(code); j++ {
			if !strings.ContainsRune(Alphabet, rune(code[j])) {
				t.Fatalf("code %q contains symbol %q outside the alphabet", code, code[j])
			}
		}
		if !Valid(code) {
			t.Fatalf("Valid(%q) = false for generated code", code)
		}
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"ABC234", true},
		{"ZZZZZZ", true},
		{"", false},
		{"ABC23", false},
		{"ABC2345", false},
		{"ABC2O4", false}, // letter O excluded
		{"abc234", false}, // lowercase not in alphabet
	}
	for _, tt := range tests {
		if got := Valid(tt.code); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

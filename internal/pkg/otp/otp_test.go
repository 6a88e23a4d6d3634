package otp

import (
	"strconv"
	"testing"
)

func TestNumericGenerate(t *testing.T) {
	gen := NewNumeric(6)

	for range 500 {
		code, err := gen.Generate()
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		if len(code) != 6 {
			t.Fatalf("Generate() = %q, want 6 digits", code)
		}

		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("Generate() = %q, want numeric", code)
		}

		if n < 100000 || n > 999999 {
			t.Fatalf("Generate() = %d, want within [100000, 999999]", n)
		}
	}
}

func TestNumericGenerateDigitsFallback(t *testing.T) {
	for _, digits := range []int{-1, 0, 3, 10} {
		code, err := NewNumeric(digits).Generate()
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		if len(code) != 6 {
			t.Fatalf("NewNumeric(%d).Generate() = %q, want 6 digits", digits, code)
		}
	}
}

func TestNumericGenerateFourDigits(t *testing.T) {
	gen := NewNumeric(4)

	code, err := gen.Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	n, err := strconv.Atoi(code)
	if err != nil || n < 1000 || n > 9999 {
		t.Fatalf("Generate() = %q, want within [1000, 9999]", code)
	}
}

package core

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseLimitToCentsAllowsZero(t *testing.T) {
	got, err := ParseLimitToCents("0")
	if err != nil || got != 0 {
		t.Fatalf("expected 0, got %d (err=%v)", got, err)
	}
	if _, err := ParseLimitToCents("-5"); err == nil {
		t.Fatalf("expected error for negative limit")
	}
}

func TestMoneyFromFloatIsExact(t *testing.T) {
	tenth, err := MoneyFromFloat(0.1)
	if err != nil {
		t.Fatal(err)
	}
	var sum Money
	for i := 0; i < 10; i++ {
		sum = sum.Add(tenth)
	}
	if sum.Cents != 100 {
		t.Fatalf("expected 100 cents, got %d", sum.Cents)
	}
	if got, err := MoneyFromFloat(19.999); err != nil || got.Cents != 2000 {
		t.Fatalf("expected 2000 cents, got %d (err=%v)", got.Cents, err)
	}
}

func TestMoneyRejectsOutOfRangeAmounts(t *testing.T) {
	for _, in := range []string{`1e30`, `-1e30`, `"92233720368547758.08"`, `1e17`} {
		var m Money
		err := json.Unmarshal([]byte(in), &m)
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("%s: expected ErrInvalidAmount, got %v (cents=%d)", in, err, m.Cents)
		}
		if m.Cents != 0 {
			t.Errorf("%s: value must be left untouched, got %d", in, m.Cents)
		}
	}

	var m Money
	if err := json.Unmarshal([]byte(`"92233720368547758.07"`), &m); err != nil || m.Cents != math.MaxInt64 {
		t.Fatalf("largest amount: got %d (err=%v)", m.Cents, err)
	}
	if _, err := MoneyFromFloat(1e30); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("MoneyFromFloat(1e30): expected ErrInvalidAmount, got %v", err)
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 123450})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "1234.50" {
		t.Fatalf("unexpected json %s", b)
	}

	var m Money
	if err := json.Unmarshal([]byte(`12.3`), &m); err != nil || m.Cents != 1230 {
		t.Fatalf("number: got %d (err=%v)", m.Cents, err)
	}
	if err := json.Unmarshal([]byte(`"7.05"`), &m); err != nil || m.Cents != 705 {
		t.Fatalf("string: got %d (err=%v)", m.Cents, err)
	}
	if err := json.Unmarshal([]byte(`"x"`), &m); err == nil {
		t.Fatalf("expected error for garbage")
	}
}

package value

import (
	"math"
	"testing"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected bool
	}{
		{"nil", Nil, false},
		{"go nil", nil, false},
		{"false", Bool(false), false},
		{"true", Bool(true), true},
		{"zero", Number(0), true},
		{"negative", Number(-3), true},
		{"empty string", String(""), true},
		{"string", String("a"), true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Truthy(test.value); got != test.expected {
				t.Errorf("Truthy(%#v) = %v, want %v", test.value, got, test.expected)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Value
		expected bool
	}{
		{"nil nil", Nil, Nil, true},
		{"nil false", Nil, Bool(false), false},
		{"false nil", Bool(false), Nil, false},
		{"numbers", Number(1), Number(1), true},
		{"different numbers", Number(1), Number(2), false},
		{"strings", String("a"), String("a"), true},
		{"number vs string", Number(1), String("1"), false},
		{"bool vs number", Bool(true), Number(1), false},
		{"bools", Bool(true), Bool(true), true},
		{"nan", Number(math.NaN()), Number(math.NaN()), false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Equal(test.a, test.b); got != test.expected {
				t.Errorf("Equal(%#v, %#v) = %v, want %v", test.a, test.b, got, test.expected)
			}
		})
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		value    Value
		expected string
	}{
		{Nil, "nil"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Number(3), "3"},
		{Number(-12), "-12"},
		{Number(2.5), "2.500000"},
		{Number(0.1 + 0.2), "0.300000"},
		{Number(math.Inf(1)), "inf"},
		{Number(math.Inf(-1)), "-inf"},
		{Number(math.NaN()), "nan"},
		{String("hello"), "hello"},
		{String(""), ""},
	}

	for _, test := range tests {
		if got := Stringify(test.value); got != test.expected {
			t.Errorf("Stringify(%#v) = %q, want %q", test.value, got, test.expected)
		}
	}
}

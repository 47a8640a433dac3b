package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
		{name: "band clamp", value: 2, min: -0.2, max: 0.2, expected: 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestClampInt(t *testing.T) {
	if got := ClampInt(70, 0, 59); got != 59 {
		t.Fatalf("ClampInt(70) = %d, want 59", got)
	}
	if got := ClampInt(-3, 0, 59); got != 0 {
		t.Fatalf("ClampInt(-3) = %d, want 0", got)
	}
	if got := ClampInt(4, 9, 0); got != 4 {
		t.Fatalf("ClampInt swapped = %d, want 4", got)
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}
}

func TestSanitize(t *testing.T) {
	for _, x := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := Sanitize(x); got != 0 {
			t.Fatalf("Sanitize(%v) = %v, want 0", x, got)
		}
	}
	if got := Sanitize(-0.25); got != -0.25 {
		t.Fatalf("Sanitize(-0.25) = %v", got)
	}
}

func TestDeadband(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.009, 0},
		{-0.009, 0},
		{0.01, 0.01},
		{-0.5, -0.5},
	}
	for _, tt := range tests {
		if got := Deadband(tt.in, 0.01); got != tt.want {
			t.Fatalf("Deadband(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLinearToDB(t *testing.T) {
	if !NearlyEqual(LinearToDB(0.5), -6.020599913279624, 1e-12) {
		t.Fatalf("LinearToDB(0.5) = %v", LinearToDB(0.5))
	}
	if !math.IsInf(LinearToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}
	if !math.IsNaN(LinearToDB(-1)) {
		t.Fatal("expected NaN for negative amplitude")
	}
}

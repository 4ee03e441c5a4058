package equation

import (
	"math"
	"testing"
)

func TestModSigns(t *testing.T) {
	cases := []struct {
		a, b Value
		want Value
	}{
		{int64(7), int64(3), int64(1)},
		{int64(-7), int64(3), int64(2)},
		{int64(7), int64(-3), int64(-2)},
		{int64(-7), int64(-3), int64(-1)},
		{7.5, 2.0, 1.5},
		{-7.5, 2.0, 0.5},
	}
	for _, c := range cases {
		got, err := mod(c.a, c.b)
		if err != nil {
			t.Errorf("%v %% %v: %v", c.a, c.b, err)
			continue
		}
		if got != c.want {
			t.Errorf("%v %% %v = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestPowPromotion(t *testing.T) {
	got, err := pow(int64(2), int64(10))
	if err != nil || got != int64(1024) {
		t.Errorf("2^10 = %v, %v; want int64 1024", got, err)
	}
	got, err = pow(int64(2), int64(-1))
	if err != nil || got != 0.5 {
		t.Errorf("2^-1 = %v, %v; want 0.5", got, err)
	}
	got, err = pow(2.0, 0.5)
	if err != nil || got != math.Sqrt2 {
		t.Errorf("2.0^0.5 = %v, %v; want sqrt(2)", got, err)
	}
	got, err = pow(-8.0, 1.0/3.0)
	if err != nil {
		t.Fatalf("(-8)^(1/3): %v", err)
	}
	c, ok := got.(complex128)
	if !ok {
		t.Fatalf("(-8)^(1/3) = %v (%T), want complex128", got, got)
	}
	if math.Abs(real(c)-1) > 1e-12 || math.Abs(imag(c)-math.Sqrt(3)) > 1e-12 {
		t.Errorf("(-8)^(1/3) = %v, want 1+sqrt(3)i", c)
	}
}

func TestArithmeticPromotion(t *testing.T) {
	got, _ := add(int64(1), int64(2))
	if got != int64(3) {
		t.Errorf("1 + 2 = %v (%T), want int64 3", got, got)
	}
	got, _ = add(int64(1), 2.5)
	if got != 3.5 {
		t.Errorf("1 + 2.5 = %v (%T), want float64 3.5", got, got)
	}
	got, _ = mul(2.0, complex(0, 1))
	if got != complex(0, 2) {
		t.Errorf("2 * i = %v (%T), want 2i", got, got)
	}
	got, _ = div(int64(3), int64(2))
	if got != 1.5 {
		t.Errorf("3 / 2 = %v (%T), want float64 1.5", got, got)
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   any
		want Value
	}{
		{5, int64(5)},
		{int32(5), int64(5)},
		{uint64(5), int64(5)},
		{float32(0.5), 0.5},
		{2.5, 2.5},
		{complex64(complex(1, 2)), complex128(complex(1, 2))},
	}
	for _, c := range cases {
		got, ok := normalize(c.in)
		if !ok || got != c.want {
			t.Errorf("normalize(%v (%T)) = %v (%T), %t; want %v (%T)", c.in, c.in, got, got, ok, c.want, c.want)
		}
	}
	if v, ok := normalize("5"); ok {
		t.Errorf("normalize(string) = %v, want no", v)
	}
	// Unsigned values past the int64 range must not wrap negative.
	if v, ok := normalize(uint64(math.MaxInt64) + 1); ok {
		t.Errorf("normalize(MaxInt64+1) = %v, want rejection", v)
	}
	if v, ok := normalize(uint64(math.MaxUint64)); ok {
		t.Errorf("normalize(MaxUint64) = %v, want rejection", v)
	}
	if v, ok := normalize(uint64(math.MaxInt64)); !ok || v != int64(math.MaxInt64) {
		t.Errorf("normalize(MaxInt64) = %v, %t; want MaxInt64", v, ok)
	}
}

func TestValueEqual(t *testing.T) {
	if !valueEqual(int64(1), 1.0) || !valueEqual(1.0, complex(1, 0)) {
		t.Error("numerically equal values compare unequal across kinds")
	}
	if valueEqual(int64(1), int64(2)) || valueEqual("x", int64(1)) {
		t.Error("unequal or non-numeric values compare equal")
	}
}

func TestFormatCanonicalValues(t *testing.T) {
	cases := []struct {
		in   Value
		want string
	}{
		{int64(42), "42"},
		{int64(-3), "-3"},
		{2.5, "2.5"},
		{2000.0, "2000.0"},
		{0.00005, "5e-05"},
		{math.Inf(1), "Inf"},
		{math.Inf(-1), "-Inf"},
		{math.NaN(), "NaN"},
		{complex(3, 4), "(3.0+4.0j)"},
		{complex(0, -1), "(0.0-1.0j)"},
	}
	for _, c := range cases {
		if got := formatCanonical(c.in); got != c.want {
			t.Errorf("formatCanonical(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCanonicalFloatsReparse(t *testing.T) {
	// Float canonical forms always carry a point or exponent so they compile
	// back to floats, not integers.
	for _, f := range []float64{2000, 0.5, 1e20, 3} {
		s := formatCanonicalFloat(f, false)
		v, n, err := scanNumber(s)
		if err != nil || n != len(s) {
			t.Errorf("canonical float %q does not rescan fully: %v", s, err)
			continue
		}
		if v != f {
			t.Errorf("canonical float %q rescans to %v (%T), want %v", s, v, v, f)
		}
	}
}

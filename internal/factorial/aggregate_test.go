package factorial

import (
	"math/big"
	"testing"
)

func TestCombine(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		partials []*big.Int
		want     int64
	}{
		{"no partials", nil, 1},
		{"single", []*big.Int{big.NewInt(6)}, 6},
		{"ordered fold", []*big.Int{big.NewInt(6), big.NewInt(20)}, 120},
		{"nil is skipped", []*big.Int{big.NewInt(6), nil, big.NewInt(20)}, 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Combine(tt.partials, nil)
			if !ok {
				t.Fatal("Combine reported an incomplete fold without a stop signal")
			}
			if got.Int64() != tt.want {
				t.Errorf("Combine() = %s, want %d", got, tt.want)
			}
		})
	}
}

func TestCombineDoesNotMutatePartials(t *testing.T) {
	t.Parallel()
	a, b := big.NewInt(3), big.NewInt(4)
	if _, ok := Combine([]*big.Int{a, b}, nil); !ok {
		t.Fatal("unexpected stop")
	}
	if a.Int64() != 3 || b.Int64() != 4 {
		t.Errorf("partials mutated: a=%s b=%s", a, b)
	}
}

func TestCombineHonoursStop(t *testing.T) {
	t.Parallel()
	calls := 0
	stop := func() bool {
		calls++
		return calls > 1
	}
	got, ok := Combine([]*big.Int{big.NewInt(2), big.NewInt(3), big.NewInt(5)}, stop)
	if ok {
		t.Fatal("expected the fold to be cut short")
	}
	if got.Int64() != 2 {
		t.Errorf("partial fold = %s, want 2", got)
	}
}

package gravity

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		g, soft float64
		wantErr error
	}{
		{"default", DefaultG, DefaultSoftening, nil},
		{"zero softening", 1, 0, ErrInvalidSoftening},
		{"negative softening", 1, -3, ErrInvalidSoftening},
		{"nan softening", 1, math.NaN(), ErrInvalidSoftening},
		{"inf softening", 1, math.Inf(1), ErrInvalidSoftening},
		{"nan g", math.NaN(), 1, ErrInvalidConstant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.g, tt.soft)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPairwiseDirection(t *testing.T) {
	f := Field{G: 1, Softening: 1}
	g := f.Pairwise(body.V(0, 0), body.V(3, 0))

	assert.Greater(t, g.X, 0.0, "pull must point from a toward b")
	assert.Equal(t, 0.0, g.Y)

	// 3 / (9+1)^1.5
	assert.InDelta(t, 3/math.Pow(10, 1.5), g.X, 1e-15)

	back := f.Pairwise(body.V(3, 0), body.V(0, 0))
	assert.Equal(t, -g.X, back.X)
}

func TestPairwiseCoincident(t *testing.T) {
	f := Default()
	g := f.Pairwise(body.V(2, 2), body.V(2, 2))
	assert.True(t, g.IsFinite())
	assert.Equal(t, body.Vec2{}, g)
}

func TestScale(t *testing.T) {
	f := Default()

	assert.InDelta(t, DefaultG/math.Pow(DefaultSoftening, 1.5), f.Scale(0), 1e-9)

	prev := f.Scale(0)
	for sep := 0.25; sep < 500; sep += 0.25 {
		s := f.Scale(sep)
		if math.IsInf(s, 0) || math.IsNaN(s) {
			t.Fatalf("scale not finite at %g", sep)
		}
		if s >= prev {
			t.Fatalf("scale not decreasing at %g: %g >= %g", sep, s, prev)
		}
		prev = s
	}
}

func TestAccelerations(t *testing.T) {
	cat, err := body.NewCatalog([]body.Spec{
		{Kind: body.Static, Mass: 4, Position: body.V(10, 0)},
		{Kind: body.Dynamic, Mass: 2, Position: body.V(0, 0)},
		{Kind: body.Test, Position: body.V(0, 5)},
	})
	require.NoError(t, err)

	f := Field{G: 1, Softening: 1}
	acc := f.Accelerations(cat)
	require.Len(t, acc, 3)

	assert.Equal(t, body.Vec2{}, acc[0])

	wantDyn := f.Pairwise(body.V(0, 0), body.V(10, 0)).Scale(4)
	assert.Equal(t, wantDyn, acc[1])

	wantTest := f.Pairwise(body.V(0, 5), body.V(10, 0)).Scale(4).
		Add(f.Pairwise(body.V(0, 5), body.V(0, 0)).Scale(2))
	assert.Equal(t, wantTest, acc[2])
}

func TestPotentialEnergy(t *testing.T) {
	cat, err := body.NewCatalog([]body.Spec{
		{Kind: body.Static, Mass: 3, Position: body.V(0, 0)},
		{Kind: body.Static, Mass: 3, Position: body.V(1, 0)},
		{Kind: body.Dynamic, Mass: 2, Position: body.V(0, 4)},
	})
	require.NoError(t, err)

	f := Field{G: 1, Softening: 9}
	want := -1*3*2/math.Sqrt(16+9) - 1*3*2/math.Sqrt(17+9)
	assert.InDelta(t, want, f.PotentialEnergy(cat), 1e-12)
}

func BenchmarkPairwise(b *testing.B) {
	f := Default()
	a, c := body.V(1, 2), body.V(-3, 7)
	for i := 0; i < b.N; i++ {
		_ = f.Pairwise(a, c)
	}
}

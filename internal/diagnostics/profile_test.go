package diagnostics

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/halosim/internal/field"
)

func grid(t *testing.T, n int, extent float64) field.Grid {
	t.Helper()
	g, err := field.NewGrid(n, extent)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestRadialProfile_Midpoints(t *testing.T) {
	g := NewWithT(t)
	p := RadialProfile(grid(t, 20, 10), field.New(20), WithShells(5))

	g.Expect(p.Len()).To(Equal(5))
	want := []float64{0.5, 1.5, 2.5, 3.5, 4.5}
	for i, r := range p.Radius {
		g.Expect(r).To(BeNumerically("~", want[i], 1e-12))
	}
}

func TestRadialProfile_DefaultShells(t *testing.T) {
	p := RadialProfile(grid(t, 16, 50), field.New(16))
	if p.Len() != DefaultShells {
		t.Fatalf("got %d shells, want %d", p.Len(), DefaultShells)
	}
	for i := 1; i < p.Len(); i++ {
		if p.Radius[i] <= p.Radius[i-1] {
			t.Fatalf("radii not increasing at %d: %v", i, p.Radius)
		}
	}
}

func TestRadialProfile_ShellMeans(t *testing.T) {
	g := NewWithT(t)
	gr := grid(t, 4, 4)
	f := field.New(4)
	f.Set(2, 2, 10)
	for _, c := range [][2]int{{1, 2}, {3, 2}, {2, 1}, {2, 3}} {
		f.Set(c[0], c[1], 2)
	}
	for _, c := range [][2]int{{1, 1}, {3, 1}, {1, 3}, {3, 3}} {
		f.Set(c[0], c[1], 4)
	}

	// Shells [0,1) and [1,2): the centre cell, then the ring of eight.
	p := RadialProfile(gr, f, WithShells(2))
	g.Expect(p.Density[0]).To(BeNumerically("~", 10, 1e-12))
	g.Expect(p.Density[1]).To(BeNumerically("~", 3, 1e-12))
}

func TestRadialProfile_EmptyShellsAreZero(t *testing.T) {
	g := NewWithT(t)
	f := field.New(4)
	for i := range f.Data() {
		f.Data()[i] = 3
	}

	p := RadialProfile(grid(t, 4, 4), f)
	empty := 0
	for _, d := range p.Density {
		g.Expect(d).To(Or(Equal(0.0), BeNumerically("~", 3, 1e-12)))
		if d == 0 {
			empty++
		}
	}
	g.Expect(empty).To(BeNumerically(">", 0))
	g.Expect(p.Density[0]).To(BeNumerically("~", 3, 1e-12))
}

func TestRadialProfile_Center(t *testing.T) {
	gr := grid(t, 8, 8)
	f := field.New(8)
	f.Set(0, 0, 7)

	if got := RadialProfile(gr, f).Density[0]; got != 0 {
		t.Fatalf("default centre should not see corner mass, got %g", got)
	}
	if got := RadialProfile(gr, f, WithCenter(0, 0)).Density[0]; got != 7 {
		t.Fatalf("centre (0,0): got %g, want 7", got)
	}
}

func TestNFW(t *testing.T) {
	got := NFW([]float64{0, 5, 10}, 8, 5)
	want := []float64{0, 2, 8.0 / (2 * 9)}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("NFW[%d] = %g, want %g", i, got[i], want[i])
		}
	}

	if out := NFW([]float64{1, 2}, 1, 0); out[0] != 0 || out[1] != 0 {
		t.Errorf("rs=0 should give zeros, got %v", out)
	}
}

func TestNFWReference_Normalisation(t *testing.T) {
	p := Profile{Radius: []float64{1, 5}, Density: []float64{4, 2}}
	ref := NFWReference(p, DefaultScaleRadius)

	// rho0 = 4·5 = 20; at r = rs the profile is rho0/4.
	if math.Abs(ref.Density[1]-5) > 1e-12 {
		t.Fatalf("got %g, want 5", ref.Density[1])
	}
	ref.Radius[0] = -1
	if p.Radius[0] != 1 {
		t.Fatal("reference shares radii with its input")
	}
}

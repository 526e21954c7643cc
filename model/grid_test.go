package model

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-ca/rules"
)

func mustGrid(t *testing.T, m [][]int) *Grid {
	t.Helper()
	g, err := NewGrid(m)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func randomGrid(t *testing.T, rows, cols int, seed int64) *Grid {
	t.Helper()
	g, err := NewEmptyGrid(rows, cols)
	if err != nil {
		t.Fatalf("NewEmptyGrid: %v", err)
	}
	g.Randomize(0.35, rand.New(rand.NewSource(seed)))
	return g
}

func TestNewGridErrors(t *testing.T) {
	tests := []struct {
		name    string
		matrix  [][]int
		wantErr error
	}{
		{"one row", [][]int{{0, 1}}, ErrTooSmall},
		{"one column", [][]int{{0}, {1}}, ErrTooSmall},
		{"empty", nil, ErrTooSmall},
		{"ragged", [][]int{{0, 1}, {1}}, ErrRagged},
		{"bad value", [][]int{{0, 2}, {1, 0}}, ErrCellValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGrid(tt.matrix); !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewGrid() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewGridCopiesInput(t *testing.T) {
	m := [][]int{{1, 0, 0}, {0, 1, 0}}
	g := mustGrid(t, m)
	m[0][0] = 0

	if g.Rows() != 2 || g.Cols() != 3 {
		t.Fatalf("dims = %dx%d, want 2x3", g.Rows(), g.Cols())
	}
	if g.CellAt(0, 0) != 1 {
		t.Fatal("grid aliases the caller's matrix")
	}
	if g.CellAt(1, 1) != 1 || g.CellAt(1, 2) != 0 {
		t.Fatal("cells not copied in row-major order")
	}
}

func TestSetCellAndClear(t *testing.T) {
	g, _ := NewEmptyGrid(3, 4)
	g.SetCell(2, 3, Alive)
	if !g.Alive(2, 3) || g.CountLivingCells() != 1 {
		t.Fatal("SetCell did not set the cell")
	}
	g.SetCell(2, 3, Dead)
	if g.Alive(2, 3) {
		t.Fatal("SetCell did not clear the cell")
	}

	g.SetCell(0, 0, Alive)
	g.SetCell(1, 2, Alive)
	g.Clear()
	if g.CountLivingCells() != 0 {
		t.Fatalf("Clear left %d living cells", g.CountLivingCells())
	}
}

func TestOutOfRangePanics(t *testing.T) {
	g, _ := NewEmptyGrid(2, 2)
	cases := map[string]func(){
		"CellAt row":  func() { g.CellAt(2, 0) },
		"CellAt col":  func() { g.CellAt(0, -1) },
		"SetCell pos": func() { g.SetCell(0, 2, Alive) },
		"SetCell val": func() { g.SetCell(0, 0, 3) },
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			fn()
		})
	}
}

func TestAugmentedBorder(t *testing.T) {
	realCorners := [][2]int{{0, 0}, {0, 3}, {2, 0}, {2, 3}}

	// One live real corner at a time, so each border corner must pick the
	// diagonally opposite one and no other.
	for _, live := range realCorners {
		g, _ := NewEmptyGrid(3, 4)
		g.SetCell(live[0], live[1], Alive)
		g.SetCell(1, 1, Alive)
		g.fillAugmented()

		w := g.Cols() + 2
		at := func(i, j int) uint8 { return g.aug[i*w+j] }
		lastRow, lastCol := g.Rows()+1, g.Cols()+1

		corners := []struct {
			i, j     int
			row, col int
		}{
			{0, 0, 2, 3},
			{0, lastCol, 2, 0},
			{lastRow, 0, 0, 3},
			{lastRow, lastCol, 0, 0},
		}
		for _, c := range corners {
			want := 0
			if c.row == live[0] && c.col == live[1] {
				want = 1
			}
			if int(at(c.i, c.j)) != want {
				t.Errorf("live (%d,%d): aug[%d][%d] = %d, want %d", live[0], live[1], c.i, c.j, at(c.i, c.j), want)
			}
		}

		for j := 1; j <= g.Cols(); j++ {
			if int(at(0, j)) != g.CellAt(g.Rows()-1, j-1) || int(at(lastRow, j)) != g.CellAt(0, j-1) {
				t.Errorf("live (%d,%d), column %d: top/bottom border does not mirror opposite row", live[0], live[1], j)
			}
		}
		for i := 1; i <= g.Rows(); i++ {
			if int(at(i, 0)) != g.CellAt(i-1, g.Cols()-1) || int(at(i, lastCol)) != g.CellAt(i-1, 0) {
				t.Errorf("live (%d,%d), row %d: left/right border does not mirror opposite column", live[0], live[1], i)
			}
		}
	}
}

func TestLoneCornerCellDies(t *testing.T) {
	g := mustGrid(t, [][]int{
		{1, 0, 0},
		{0, 0, 0},
		{0, 0, 0},
	})

	g.fillAugmented()
	n := g.neighborhood(0, 0)
	count := 0
	for i := range n {
		for j := range n[i] {
			count += int(n[i][j])
		}
	}
	if count != 1 || n[1][1] != 1 {
		t.Fatalf("neighborhood of (0,0) = %v, want only the centre alive", n)
	}

	g.Step(rules.Conway)
	if g.CountLivingCells() != 0 {
		t.Fatalf("lone cell should die, got\n%s", g)
	}
}

func TestWrappedNeighborsAcrossCorner(t *testing.T) {
	// (0,0) has live neighbors only through the corner wrap: (3,3), (3,0) and (0,3).
	g, _ := NewEmptyGrid(4, 4)
	g.SetCell(3, 3, Alive)
	g.SetCell(3, 0, Alive)
	g.SetCell(0, 3, Alive)

	g.Step(rules.Conway)
	if !g.Alive(0, 0) {
		t.Fatalf("(0,0) should be born from three wrapped neighbors, got\n%s", g)
	}
}

func TestBlinkerOscillation(t *testing.T) {
	start := mustGrid(t, [][]int{
		{0, 0, 0, 0, 0},
		{0, 0, 1, 0, 0},
		{0, 0, 1, 0, 0},
		{0, 0, 1, 0, 0},
		{0, 0, 0, 0, 0},
	})
	horizontal := mustGrid(t, [][]int{
		{0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0},
		{0, 1, 1, 1, 0},
		{0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0},
	})

	g := start.Clone()
	g.Step(rules.Conway)
	if !g.Equal(horizontal) {
		t.Fatalf("after one step got\n%s", g)
	}
	g.Step(rules.Conway)
	if !g.Equal(start) {
		t.Fatalf("after two steps got\n%s", g)
	}
}

func TestBlinkerAcrossEdges(t *testing.T) {
	g, _ := NewEmptyGrid(5, 5)
	g.AddBlinker(4, 0) // occupies rows 4, 0, 1
	start := g.Clone()

	g.StepN(1, rules.Conway)
	if !g.Alive(0, 4) || !g.Alive(0, 0) || !g.Alive(0, 1) || g.CountLivingCells() != 3 {
		t.Fatalf("wrapped blinker did not flip horizontally:\n%s", g)
	}
	g.StepN(1, rules.Conway)
	if !g.Equal(start) {
		t.Fatalf("wrapped blinker did not return:\n%s", g)
	}
}

func TestGliderCircumnavigates(t *testing.T) {
	g, _ := NewEmptyGrid(8, 8)
	g.AddGlider(5, 5) // straddles the bottom-right corner after a few steps
	start := g.Clone()

	// A glider moves one cell diagonally every 4 generations.
	g.StepN(4*8, rules.Conway)
	if !g.Equal(start) {
		t.Fatalf("glider did not return to its start after 32 steps:\n%s", g)
	}
}

func TestStepPreservesDimensions(t *testing.T) {
	for _, dims := range [][2]int{{2, 2}, {2, 7}, {9, 3}, {13, 17}} {
		g := randomGrid(t, dims[0], dims[1], 7)
		g.StepN(5, rules.Rule{MaxSurvivors: 4, MinSurvivors: 1, BirthCount: 2})
		if g.Rows() != dims[0] || g.Cols() != dims[1] {
			t.Fatalf("dims changed to %dx%d, want %dx%d", g.Rows(), g.Cols(), dims[0], dims[1])
		}
	}
}

func TestStepIsDeterministic(t *testing.T) {
	g := randomGrid(t, 12, 15, 3)
	a, b := g.Clone(), g.Clone()
	r := rules.Rule{MaxSurvivors: 3, MinSurvivors: 2, BirthCount: 3}

	a.StepN(10, r)
	b.StepN(10, r)
	if !a.Equal(b) {
		t.Fatal("stepping identical copies gave different results")
	}
}

func TestStepZeroIsNoop(t *testing.T) {
	g := randomGrid(t, 6, 6, 11)
	want := g.Clone()
	g.StepN(0, rules.Conway)
	g.StepN(-3, rules.Conway)
	if !g.Equal(want) {
		t.Fatal("StepN with n <= 0 changed the grid")
	}
}

func TestAllDeadStaysDead(t *testing.T) {
	g, _ := NewEmptyGrid(6, 9)
	for birth := 1; birth <= 8; birth++ {
		g.Step(rules.Rule{MaxSurvivors: 8, MinSurvivors: 0, BirthCount: birth})
		if g.CountLivingCells() != 0 {
			t.Fatalf("birth=%d: all-dead grid came alive", birth)
		}
	}
}

func TestStepParallelMatchesStep(t *testing.T) {
	r := rules.Rule{MaxSurvivors: 4, MinSurvivors: 2, BirthCount: 3}
	for _, workers := range []int{0, 1, 2, 3, 7, 16, 40} {
		seq := randomGrid(t, 17, 23, 99)
		par := seq.Clone()

		seq.StepN(6, r)
		if err := par.StepNParallel(6, r, workers); err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if !seq.Equal(par) {
			t.Fatalf("workers=%d: parallel result differs from sequential", workers)
		}
	}
}

func TestEqual(t *testing.T) {
	a := mustGrid(t, [][]int{{1, 0}, {0, 1}})
	b := mustGrid(t, [][]int{{1, 0}, {0, 1}})
	c := mustGrid(t, [][]int{{1, 0}, {1, 1}})
	d := mustGrid(t, [][]int{{1, 0, 0}, {0, 1, 0}})

	if !a.Equal(b) {
		t.Error("identical grids not equal")
	}
	if a.Equal(c) {
		t.Error("grids with different cells are equal")
	}
	if a.Equal(d) {
		t.Error("grids with different dimensions are equal")
	}
	if a.Equal(nil) {
		t.Error("grid equal to nil")
	}
}

func TestStringFormat(t *testing.T) {
	g := mustGrid(t, [][]int{
		{1, 0, 0},
		{0, 0, 1},
	})
	want := "X . . \n. . X \n"
	if got := g.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestMatrixIsCopy(t *testing.T) {
	g := mustGrid(t, [][]int{{1, 0}, {0, 1}})
	m := g.Matrix()
	m[0][0] = 0
	if g.CellAt(0, 0) != 1 {
		t.Fatal("Matrix aliases grid storage")
	}
}

func TestStagnation(t *testing.T) {
	block, _ := NewEmptyGrid(6, 6)
	block.SetCell(2, 2, Alive)
	block.SetCell(2, 3, Alive)
	block.SetCell(3, 2, Alive)
	block.SetCell(3, 3, Alive)

	if block.IsStagnant() {
		t.Fatal("grid without history reported stagnant")
	}
	block.UpdateHistory()
	block.Step(rules.Conway)
	if !block.IsStagnant() {
		t.Fatal("still life not reported stagnant")
	}

	blinker, _ := NewEmptyGrid(5, 5)
	blinker.AddBlinker(1, 2)
	blinker.UpdateHistory()
	blinker.Step(rules.Conway)
	if blinker.IsStagnant() {
		t.Fatal("blinker reported stagnant after one step")
	}
	blinker.UpdateHistory()
	blinker.Step(rules.Conway)
	if !blinker.IsStagnant() {
		t.Fatal("period-2 blinker not reported stagnant")
	}

	blinker.Clear()
	if blinker.IsStagnant() {
		t.Fatal("Clear did not reset history")
	}
}

func TestRandomizeIsSeeded(t *testing.T) {
	a := randomGrid(t, 10, 10, 5)
	b := randomGrid(t, 10, 10, 5)
	if !a.Equal(b) || a.Hash() != b.Hash() {
		t.Fatal("same seed gave different grids")
	}
	if a.CountLivingCells() == 0 {
		t.Fatal("random grid has no living cells")
	}
}

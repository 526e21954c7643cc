package model

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"math/rand"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-ca/rules"
)

const (
	// Dead and Alive are the two cell states.
	Dead  = 0
	Alive = 1

	// MinRows and MinCols are the smallest dimensions a Grid can have.
	MinRows = 2
	MinCols = 2

	historySize = 5

	deadToken  = ". "
	aliveToken = "X "
)

var (
	ErrTooSmall  = errors.New("grid must have at least 2 rows and 2 columns")
	ErrRagged    = errors.New("grid rows must all have the same length")
	ErrCellValue = errors.New("cell value must be 0 or 1")
)

// Grid is a fixed-size toroidal board of 0/1 cells stored row-major in a flat buffer.
//
// A Grid is not safe for concurrent use. Callers sharing one across goroutines
// must hold a single lock around each step.
type Grid struct {
	rows  int
	cols  int
	cells []uint8
	next  []uint8 // write buffer for the generation being computed
	aug   []uint8 // (rows+2)x(cols+2) wrapped copy of cells, rebuilt every step

	history []string // hashes of recent generations for cycle detection
}

// NewGrid creates a grid from a row-major matrix of 0/1 values.
// The matrix is copied; the grid never aliases it.
func NewGrid(initial [][]int) (*Grid, error) {
	if len(initial) < MinRows || len(initial[0]) < MinCols {
		return nil, errors.Wrapf(ErrTooSmall, "[NewGrid] got %d rows", len(initial))
	}

	g := newGrid(len(initial), len(initial[0]))
	for i, row := range initial {
		if len(row) != g.cols {
			return nil, errors.Wrapf(ErrRagged, "[NewGrid] row %d has %d columns, want %d", i, len(row), g.cols)
		}
		for j, v := range row {
			if v != Dead && v != Alive {
				return nil, errors.Wrapf(ErrCellValue, "[NewGrid] cell (%d,%d) is %d", i, j, v)
			}
			g.cells[i*g.cols+j] = uint8(v)
		}
	}
	return g, nil
}

// NewEmptyGrid creates an all-dead grid with the given dimensions.
func NewEmptyGrid(rows, cols int) (*Grid, error) {
	if rows < MinRows || cols < MinCols {
		return nil, errors.Wrapf(ErrTooSmall, "[NewEmptyGrid] got %dx%d", rows, cols)
	}
	return newGrid(rows, cols), nil
}

func newGrid(rows, cols int) *Grid {
	return &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]uint8, rows*cols),
		next:  make([]uint8, rows*cols),
		aug:   make([]uint8, (rows+2)*(cols+2)),
	}
}

// Rows returns the number of rows.
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the number of columns.
func (g *Grid) Cols() int {
	return g.cols
}

func (g *Grid) index(row, col int) int {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		panic(fmt.Sprintf("model: cell (%d,%d) outside %dx%d grid", row, col, g.rows, g.cols))
	}
	return row*g.cols + col
}

// CellAt returns 0 or 1. It panics if (row, col) is outside the grid.
func (g *Grid) CellAt(row, col int) int {
	return int(g.cells[g.index(row, col)])
}

// Alive reports whether the cell at (row, col) is alive.
func (g *Grid) Alive(row, col int) bool {
	return g.cells[g.index(row, col)] == Alive
}

// SetCell forces a cell to 0 or 1. It panics on an out-of-range position or value.
func (g *Grid) SetCell(row, col, value int) {
	if value != Dead && value != Alive {
		panic(fmt.Sprintf("model: cell value %d is not 0 or 1", value))
	}
	g.cells[g.index(row, col)] = uint8(value)
}

// Clear kills every cell and forgets the generation history.
func (g *Grid) Clear() {
	clear(g.cells)
	g.history = nil
}

// fillAugmented copies cells into aug with a one-cell toroidal border.
// Wrapping each real row's ends first and then copying whole border rows
// makes the corners the diagonally opposite real corners.
func (g *Grid) fillAugmented() {
	rows, cols, w := g.rows, g.cols, g.cols+2

	for i := 0; i < rows; i++ {
		src := g.cells[i*cols : (i+1)*cols]
		dst := g.aug[(i+1)*w : (i+2)*w]
		dst[0] = src[cols-1]
		copy(dst[1:cols+1], src)
		dst[cols+1] = src[0]
	}

	copy(g.aug[:w], g.aug[rows*w:(rows+1)*w])
	copy(g.aug[(rows+1)*w:], g.aug[w:2*w])
}

// neighborhood returns the 3x3 block of aug centred on real cell (row, col).
func (g *Grid) neighborhood(row, col int) (n rules.Neighborhood) {
	w := g.cols + 2
	for di := range n {
		base := (row+di)*w + col
		n[di][0], n[di][1], n[di][2] = g.aug[base], g.aug[base+1], g.aug[base+2]
	}
	return n
}

// stepRows evaluates rows [from, to) into next. It only reads aug.
func (g *Grid) stepRows(from, to int, r rules.Rule) {
	for i := from; i < to; i++ {
		for j := 0; j < g.cols; j++ {
			var v uint8 = Dead
			if rules.CellSurvives(g.neighborhood(i, j), r) {
				v = Alive
			}
			g.next[i*g.cols+j] = v
		}
	}
}

// Step advances the grid one generation under r. Every cell is computed from
// the previous generation before any cell is replaced.
func (g *Grid) Step(r rules.Rule) {
	g.fillAugmented()
	g.stepRows(0, g.rows, r)
	g.cells, g.next = g.next, g.cells
}

// StepN applies Step n times with the same rule. n <= 0 is a no-op.
func (g *Grid) StepN(n int, r rules.Rule) {
	for range max(n, 0) {
		g.Step(r)
	}
}

// StepParallel advances one generation, splitting rows into bands evaluated
// concurrently. workers <= 0 uses runtime.NumCPU(). The result is identical to Step.
func (g *Grid) StepParallel(r rules.Rule, workers int) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g.fillAugmented()

	var (
		eg            errgroup.Group
		rowsPerWorker = (g.rows + workers - 1) / workers // Ceiling division
	)

	for i := range workers {
		var (
			startRow = i * rowsPerWorker
			endRow   = min(startRow+rowsPerWorker, g.rows)
		)
		if startRow >= g.rows {
			break
		}

		eg.Go(func() error {
			g.stepRows(startRow, endRow, r)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return errors.Wrap(err, "[StepParallel] band failed")
	}

	g.cells, g.next = g.next, g.cells
	return nil
}

// StepNParallel applies StepParallel n times.
func (g *Grid) StepNParallel(n int, r rules.Rule, workers int) error {
	for range max(n, 0) {
		if err := g.StepParallel(r, workers); err != nil {
			return err
		}
	}
	return nil
}

// Equal reports whether both grids have the same dimensions and cells.
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	return g.rows == other.rows && g.cols == other.cols && bytes.Equal(g.cells, other.cells)
}

// Clone returns an independent copy of the current generation.
func (g *Grid) Clone() *Grid {
	c := newGrid(g.rows, g.cols)
	copy(c.cells, g.cells)
	return c
}

// Matrix returns a copy of the cells as a row-major matrix.
func (g *Grid) Matrix() [][]int {
	m := make([][]int, g.rows)
	for i := range m {
		m[i] = make([]int, g.cols)
		for j := range m[i] {
			m[i][j] = int(g.cells[i*g.cols+j])
		}
	}
	return m
}

// String renders the grid in the textual snapshot format: ". " for dead,
// "X " for alive, one line per row, each line ending in "\n".
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow(g.rows * (2*g.cols + 1))
	for i := 0; i < g.rows; i++ {
		for _, c := range g.cells[i*g.cols : (i+1)*g.cols] {
			if c == Alive {
				sb.WriteString(aliveToken)
			} else {
				sb.WriteString(deadToken)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// CountLivingCells returns the total number of living cells
func (g *Grid) CountLivingCells() (count int) {
	for _, c := range g.cells {
		count += int(c)
	}
	return
}

// Hash returns an MD5 hash of the current generation.
func (g *Grid) Hash() string {
	return fmt.Sprintf("%x", md5.Sum(g.cells))
}

// UpdateHistory records the current generation, keeping the last few.
func (g *Grid) UpdateHistory() {
	g.history = append(g.history, g.Hash())
	if len(g.history) > historySize {
		g.history = g.history[1:]
	}
}

// IsStagnant reports whether the current generation matches one of the last
// three recorded ones, i.e. the grid is static or cycling with period <= 3.
// Call it before UpdateHistory for the current generation.
func (g *Grid) IsStagnant() bool {
	current := g.Hash()
	for k := 1; k <= 3 && k <= len(g.history); k++ {
		if g.history[len(g.history)-k] == current {
			return true
		}
	}
	return false
}

// Randomize sets each cell alive with probability density.
func (g *Grid) Randomize(density float64, rng *rand.Rand) {
	for i := range g.cells {
		g.cells[i] = Dead
		if rng.Float64() < density {
			g.cells[i] = Alive
		}
	}
}

// setWrapped sets a cell, wrapping the position around both axes.
func (g *Grid) setWrapped(row, col int) {
	row = (row%g.rows + g.rows) % g.rows
	col = (col%g.cols + g.cols) % g.cols
	g.cells[row*g.cols+col] = Alive
}

// AddGlider adds a south-east travelling glider with its bounding box at (row, col).
func (g *Grid) AddGlider(row, col int) {
	pattern := [3][3]bool{
		{false, true, false},
		{false, false, true},
		{true, true, true},
	}

	for dr, line := range pattern {
		for dc, alive := range line {
			if alive {
				g.setWrapped(row+dr, col+dc)
			}
		}
	}
}

// AddBlinker adds a vertical blinker whose top cell is at (row, col).
func (g *Grid) AddBlinker(row, col int) {
	for dr := range 3 {
		g.setWrapped(row+dr, col)
	}
}

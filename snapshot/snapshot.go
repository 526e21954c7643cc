// Package snapshot reads and writes grids in the plain text format used for
// display: one line per row, "." for dead and "X" for alive, each token
// followed by a single space.
package snapshot

import (
	"bufio"
	"io"
	"math"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-ca/model"
)

const (
	deadToken  = "."
	aliveToken = "X"

	initialLineBuffer = 64 * 1024
)

var (
	ErrEmpty    = errors.New("snapshot has no rows")
	ErrRagged   = errors.New("snapshot rows differ in length")
	ErrBadToken = errors.New("snapshot token must be '.' or 'X'")
)

// Parse reads a snapshot into a row-major 0/1 matrix. Blank lines are
// skipped, so a trailing newline does not change the row count. The column
// count is taken from the first row.
func Parse(r io.Reader) ([][]int, error) {
	var (
		matrix  [][]int
		scanner = bufio.NewScanner(r)
		lineNo  = 0
	)
	// Rows are 2 bytes per cell, so wide grids exceed the default line limit.
	scanner.Buffer(make([]byte, 0, initialLineBuffer), math.MaxInt)

	for scanner.Scan() {
		lineNo++
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			continue
		}
		if len(matrix) > 0 && len(tokens) != len(matrix[0]) {
			return nil, errors.Wrapf(ErrRagged, "[Parse] line %d has %d cells, want %d", lineNo, len(tokens), len(matrix[0]))
		}

		row := make([]int, len(tokens))
		for j, tok := range tokens {
			switch tok {
			case deadToken:
				row[j] = model.Dead
			case aliveToken:
				row[j] = model.Alive
			default:
				return nil, errors.Wrapf(ErrBadToken, "[Parse] line %d column %d: %q", lineNo, j+1, tok)
			}
		}
		matrix = append(matrix, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "[Parse] failed to read snapshot")
	}
	if len(matrix) == 0 {
		return nil, ErrEmpty
	}
	return matrix, nil
}

// Decode parses a snapshot and builds a grid from it.
func Decode(r io.Reader) (*model.Grid, error) {
	matrix, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return model.NewGrid(matrix)
}

// Encode writes g in snapshot format.
func Encode(w io.Writer, g *model.Grid) error {
	if _, err := io.WriteString(w, g.String()); err != nil {
		return errors.Wrap(err, "[Encode] failed to write snapshot")
	}
	return nil
}

// Load reads a grid from the snapshot file at path.
func Load(path string) (*model.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "[Load] failed to open file: %+v", path)
	}
	defer f.Close()

	g, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "[Load] invalid snapshot: %+v", path)
	}
	return g, nil
}

// Save writes g to path, replacing any existing file.
func Save(path string, g *model.Grid) error {
	if err := os.WriteFile(path, []byte(g.String()), 0o644); err != nil {
		return errors.Wrapf(err, "[Save] failed to write file: %+v", path)
	}
	return nil
}

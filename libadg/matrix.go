package libadg

import (
	"strconv"

	"github.com/manybody/adg/adg"
	"github.com/pkg/errors"
)

const adgCells = adg.MaxOrder * adg.MaxOrder

// Matrix is a square adjacency matrix of line multiplicities: At(i, j) is the number of lines from vertex i to vertex j.
//
// Matrix has value semantics: assignment copies all cells, so a branch in an enumeration is a plain copy.
type Matrix struct {
	Nv    int8
	cells [adgCells]uint8
}

// NewMatrix returns an all-zero Nv x Nv matrix.
func NewMatrix(Nv int) Matrix {
	if Nv < 0 || Nv > adg.MaxOrder {
		panic("matrix size out of range")
	}
	return Matrix{Nv: int8(Nv)}
}

// MatrixFromRows builds a Matrix from row slices, checking the rows form a square of non-negative entries.
func MatrixFromRows(rows [][]int) (Matrix, error) {
	Nv := len(rows)
	if Nv > adg.MaxOrder {
		return Matrix{}, errors.Wrapf(adg.ErrBadMatrixDump, "%d rows exceeds max order %d", Nv, adg.MaxOrder)
	}
	M := NewMatrix(Nv)
	for i, row := range rows {
		if len(row) != Nv {
			return Matrix{}, errors.Wrapf(adg.ErrBadMatrixDump, "row %d has %d entries, expected %d", i+1, len(row), Nv)
		}
		for j, n := range row {
			if n < 0 || n > 255 {
				return Matrix{}, errors.Wrapf(adg.ErrBadMatrixDump, "entry (%d,%d) = %d out of range", i+1, j+1, n)
			}
			M.Set(i, j, n)
		}
	}
	return M, nil
}

func (M *Matrix) NumVertices() int {
	return int(M.Nv)
}

func (M *Matrix) At(i, j int) int {
	return int(M.cells[i*adg.MaxOrder+j])
}

func (M *Matrix) Set(i, j, n int) {
	M.cells[i*adg.MaxOrder+j] = uint8(n)
}

func (M *Matrix) Add(i, j, n int) {
	M.cells[i*adg.MaxOrder+j] += uint8(n)
}

// AddMatrix adds B element-wise into M.
func (M *Matrix) AddMatrix(B *Matrix) {
	for i := range M.cells {
		M.cells[i] += B.cells[i]
	}
}

// OutDegree is the number of lines leaving vertex v.
func (M *Matrix) OutDegree(v int) int {
	deg := 0
	for j := 0; j < int(M.Nv); j++ {
		deg += M.At(v, j)
	}
	return deg
}

// InDegree is the number of lines entering vertex v.
func (M *Matrix) InDegree(v int) int {
	deg := 0
	for i := 0; i < int(M.Nv); i++ {
		deg += M.At(i, v)
	}
	return deg
}

// Degree is the total number of line ends at vertex v.
func (M *Matrix) Degree(v int) int {
	return M.InDegree(v) + M.OutDegree(v)
}

// NumLines is the total number of lines.
func (M *Matrix) NumLines() int {
	total := 0
	for _, n := range M.cells {
		total += int(n)
	}
	return total
}

// Compare orders two matrices lexicographically by their row-major cells.
// Matrices of lesser size order first.
func (M *Matrix) Compare(B *Matrix) int {
	if d := int(M.Nv) - int(B.Nv); d != 0 {
		return d
	}
	Nv := int(M.Nv)
	for i := 0; i < Nv; i++ {
		for j := 0; j < Nv; j++ {
			if d := M.At(i, j) - B.At(i, j); d != 0 {
				return d
			}
		}
	}
	return 0
}

func (M *Matrix) Equal(B *Matrix) bool {
	return M.Nv == B.Nv && M.cells == B.cells
}

// Rows returns a fresh row-major copy of this matrix.
func (M *Matrix) Rows() [][]int {
	Nv := int(M.Nv)
	rows := make([][]int, Nv)
	for i := range rows {
		rows[i] = make([]int, Nv)
		for j := range rows[i] {
			rows[i][j] = M.At(i, j)
		}
	}
	return rows
}

// Flatten returns the Nv*Nv cells in row-major order.
func (M *Matrix) Flatten() []int {
	Nv := int(M.Nv)
	flat := make([]int, 0, Nv*Nv)
	for i := 0; i < Nv; i++ {
		for j := 0; j < Nv; j++ {
			flat = append(flat, M.At(i, j))
		}
	}
	return flat
}

// AppendEncoding appends the vertex count followed by the Nv*Nv cells, row-major.
func (M *Matrix) AppendEncoding(dst []byte) []byte {
	Nv := int(M.Nv)
	dst = append(dst, byte(Nv))
	for i := 0; i < Nv; i++ {
		dst = append(dst, M.cells[i*adg.MaxOrder:i*adg.MaxOrder+Nv]...)
	}
	return dst
}

// InitFromEncoding is the inverse of AppendEncoding and returns the number of bytes consumed.
func (M *Matrix) InitFromEncoding(in []byte) (int, error) {
	if len(in) == 0 {
		return 0, adg.ErrBadMatrixDump
	}
	Nv := int(in[0])
	if Nv > adg.MaxOrder || len(in) < 1+Nv*Nv {
		return 0, errors.Wrap(adg.ErrBadMatrixDump, "truncated matrix encoding")
	}
	*M = NewMatrix(Nv)
	for i := 0; i < Nv; i++ {
		copy(M.cells[i*adg.MaxOrder:i*adg.MaxOrder+Nv], in[1+i*Nv:1+(i+1)*Nv])
	}
	return 1 + Nv*Nv, nil
}

func (M Matrix) String() string {
	buf := make([]byte, 0, 64)
	buf = append(buf, '[')
	for i := 0; i < int(M.Nv); i++ {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, '[')
		for j := 0; j < int(M.Nv); j++ {
			if j > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendInt(buf, int64(M.At(i, j)), 10)
		}
		buf = append(buf, ']')
	}
	buf = append(buf, ']')
	return string(buf)
}

// Candidate is one enumerated realization: an adjacency matrix plus, for PBMBPT, how many lines of each cell are anomalous.
type Candidate struct {
	Tag  int    // enumeration index
	Adj  Matrix // line multiplicities
	Anom Matrix // anomalous share of Adj, cell by cell
}

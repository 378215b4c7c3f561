package core

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrNotInvertible is returned when a matrix determinant is too close to zero
	ErrNotInvertible = errors.New("matrix is not invertible")
	// ErrInvalidMatrix is returned for malformed matrix input
	ErrInvalidMatrix = errors.New("invalid matrix")
)

// Matrix is a square matrix of size 2, 3 or 4 stored row-major.
// 4x4 is the working size; smaller sizes only appear as submatrices.
type Matrix struct {
	size int
	m    [4][4]float64
}

// NewMatrix builds a matrix from rows. All rows must have the same length as
// the number of rows, and the size must be 2, 3 or 4.
func NewMatrix(rows ...[]float64) (Matrix, error) {
	n := len(rows)
	if n < 2 || n > 4 {
		return Matrix{}, fmt.Errorf("%w: size %d not in [2,4]", ErrInvalidMatrix, n)
	}
	result := Matrix{size: n}
	for r, row := range rows {
		if len(row) != n {
			return Matrix{}, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidMatrix, r, len(row), n)
		}
		copy(result.m[r][:n], row)
	}
	return result, nil
}

// MustMatrix is like NewMatrix but panics on malformed input.
// Intended for literals in tests and fixed transforms.
func MustMatrix(rows ...[]float64) Matrix {
	m, err := NewMatrix(rows...)
	if err != nil {
		panic(err)
	}
	return m
}

// Identity returns the 4x4 identity matrix
func Identity() Matrix {
	return Matrix{
		size: 4,
		m: [4][4]float64{
			{1, 0, 0, 0},
			{0, 1, 0, 0},
			{0, 0, 1, 0},
			{0, 0, 0, 1},
		},
	}
}

// Matrix4 builds a 4x4 matrix from 16 values in row-major order
func Matrix4(values [16]float64) Matrix {
	result := Matrix{size: 4}
	for i, v := range values {
		result.m[i/4][i%4] = v
	}
	return result
}

// Size returns the number of rows (and columns)
func (a Matrix) Size() int {
	return a.size
}

// At returns the element at row r, column c
func (a Matrix) At(r, c int) float64 {
	return a.m[r][c]
}

// Multiply returns a * b. Both must be 4x4.
func (a Matrix) Multiply(b Matrix) Matrix {
	result := Matrix{size: 4}
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			result.m[r][c] = a.m[r][0]*b.m[0][c] +
				a.m[r][1]*b.m[1][c] +
				a.m[r][2]*b.m[2][c] +
				a.m[r][3]*b.m[3][c]
		}
	}
	return result
}

// MultiplyTuple returns a * t treating t as a column vector
func (a Matrix) MultiplyTuple(t Tuple) Tuple {
	return Tuple{
		X: a.m[0][0]*t.X + a.m[0][1]*t.Y + a.m[0][2]*t.Z + a.m[0][3]*t.W,
		Y: a.m[1][0]*t.X + a.m[1][1]*t.Y + a.m[1][2]*t.Z + a.m[1][3]*t.W,
		Z: a.m[2][0]*t.X + a.m[2][1]*t.Y + a.m[2][2]*t.Z + a.m[2][3]*t.W,
		W: a.m[3][0]*t.X + a.m[3][1]*t.Y + a.m[3][2]*t.Z + a.m[3][3]*t.W,
	}
}

// Transpose swaps rows and columns
func (a Matrix) Transpose() Matrix {
	result := Matrix{size: a.size}
	for r := 0; r < a.size; r++ {
		for c := 0; c < a.size; c++ {
			result.m[c][r] = a.m[r][c]
		}
	}
	return result
}

// Submatrix removes the given row and column, producing a matrix one size smaller
func (a Matrix) Submatrix(row, col int) Matrix {
	result := Matrix{size: a.size - 1}
	dr := 0
	for r := 0; r < a.size; r++ {
		if r == row {
			continue
		}
		dc := 0
		for c := 0; c < a.size; c++ {
			if c == col {
				continue
			}
			result.m[dr][dc] = a.m[r][c]
			dc++
		}
		dr++
	}
	return result
}

// Minor is the determinant of the submatrix at (row, col)
func (a Matrix) Minor(row, col int) float64 {
	return a.Submatrix(row, col).Determinant()
}

// Cofactor is the minor with its sign flipped when row+col is odd
func (a Matrix) Cofactor(row, col int) float64 {
	minor := a.Minor(row, col)
	if (row+col)%2 == 1 {
		return -minor
	}
	return minor
}

// Determinant uses the closed form for 2x2 and cofactor expansion along row 0 otherwise
func (a Matrix) Determinant() float64 {
	if a.size == 2 {
		return a.m[0][0]*a.m[1][1] - a.m[0][1]*a.m[1][0]
	}
	det := 0.0
	for c := 0; c < a.size; c++ {
		det += a.m[0][c] * a.Cofactor(0, c)
	}
	return det
}

// IsInvertible reports whether |det| is at least DeterminantEpsilon
func (a Matrix) IsInvertible() bool {
	return math.Abs(a.Determinant()) >= DeterminantEpsilon
}

// Inverse computes the inverse via the adjugate divided by the determinant
func (a Matrix) Inverse() (Matrix, error) {
	det := a.Determinant()
	if math.Abs(det) < DeterminantEpsilon {
		return Matrix{}, fmt.Errorf("%w: determinant %g", ErrNotInvertible, det)
	}
	result := Matrix{size: a.size}
	for r := 0; r < a.size; r++ {
		for c := 0; c < a.size; c++ {
			// transposed write builds the adjugate in place
			result.m[c][r] = a.Cofactor(r, c) / det
		}
	}
	return result, nil
}

// Equal compares two matrices element-wise within Epsilon
func (a Matrix) Equal(b Matrix) bool {
	if a.size != b.size {
		return false
	}
	for r := 0; r < a.size; r++ {
		for c := 0; c < a.size; c++ {
			if !FloatEqual(a.m[r][c], b.m[r][c]) {
				return false
			}
		}
	}
	return true
}

func (a Matrix) String() string {
	var sb strings.Builder
	for r := 0; r < a.size; r++ {
		sb.WriteString("|")
		for c := 0; c < a.size; c++ {
			fmt.Fprintf(&sb, " %g", a.m[r][c])
		}
		sb.WriteString(" |\n")
	}
	return sb.String()
}

package recommend

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// CosineSimilarities returns the cosine similarity between query and every
// row, computing all dot products in one matrix-vector product. Zero vectors
// have similarity 0. Values are not clamped.
func CosineSimilarities(query []float64, rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	dim := len(query)
	for i, row := range rows {
		if len(row) != dim {
			return nil, fmt.Errorf("row %d has %d dimensions, query has %d: %w", i, len(row), dim, ErrDimensionMismatch)
		}
	}

	queryNorm := floats.Norm(query, 2)
	if dim == 0 || queryNorm == 0 {
		return out, nil
	}

	data := make([]float64, 0, len(rows)*dim)
	for _, row := range rows {
		data = append(data, row...)
	}
	m := mat.NewDense(len(rows), dim, data)

	var dots mat.VecDense
	dots.MulVec(m, mat.NewVecDense(dim, query))

	for i, row := range rows {
		rowNorm := floats.Norm(row, 2)
		if rowNorm == 0 {
			continue
		}
		out[i] = dots.AtVec(i) / (queryNorm * rowNorm)
	}
	return out, nil
}

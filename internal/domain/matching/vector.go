package matching

import (
	"math"

	"skill-bridge/internal/embedding"
)

// MeanPool averages vecs element-wise. An empty input yields the zero vector
// of length dims.
func MeanPool(vecs []embedding.Vector, dims int) (embedding.Vector, error) {
	out := embedding.Zero(dims)
	if len(vecs) == 0 {
		return out, nil
	}
	for _, v := range vecs {
		if len(v) != dims {
			return nil, embedding.ErrDimensionMismatch
		}
		for i, x := range v {
			out[i] += x
		}
	}
	n := float64(len(vecs))
	for i := range out {
		out[i] /= n
	}
	return out, nil
}

// Cosine returns 0 when either vector has zero norm or the lengths differ.
func Cosine(a, b embedding.Vector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

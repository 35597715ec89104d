package knowledge

import "math"

// Normalize scales v to unit L2 norm in place. Zero vectors are left
// unchanged. Normalization is the caller's job before VectorIndex.Add and
// before VectorIndex.Search; with unit vectors the index's inner product is
// cosine similarity.
func Normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}

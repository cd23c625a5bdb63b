// Package embedding builds fixed-length hashed bag-of-words vectors.
//
// Every token is hashed into one of dims buckets and counted; the count vector is
// L2-normalised. Distinct tokens may collide in a bucket, which is accepted.
package embedding

import (
	"crypto/md5"
	"math"
	"math/big"

	"github.com/jonathan/jobmatch/internal/textproc"
)

// DefaultDims is the vector length used by the ranking engine.
const DefaultDims = 512

// HashIndex maps a token to a bucket in [0, dims).
// The MD5 digest is read as a 128-bit big-endian unsigned integer and reduced mod dims,
// which keeps vectors identical to the ones produced by the portal's Python service.
func HashIndex(token string, dims int) int {
	if dims < 1 {
		dims = DefaultDims
	}
	sum := md5.Sum([]byte(token))
	n := new(big.Int).SetBytes(sum[:])
	return int(n.Mod(n, big.NewInt(int64(dims))).Int64())
}

// Embed returns one unit-length vector per text. Texts without tokens yield the zero vector.
// dims < 1 falls back to DefaultDims.
func Embed(texts []string, dims int) [][]float64 {
	if dims < 1 {
		dims = DefaultDims
	}
	vecs := make([][]float64, 0, len(texts))
	for _, text := range texts {
		vecs = append(vecs, EmbedOne(text, dims))
	}
	return vecs
}

// EmbedOne embeds a single text.
func EmbedOne(text string, dims int) []float64 {
	if dims < 1 {
		dims = DefaultDims
	}
	v := make([]float64, dims)
	tokens := textproc.Tokenize(text)
	if len(tokens) == 0 {
		return v
	}

	for _, tok := range tokens {
		v[HashIndex(tok, dims)] += 1.0
	}

	var sq float64
	for _, x := range v {
		sq += x * x
	}
	norm := math.Sqrt(sq)
	if norm == 0 {
		norm = 1.0
	}
	for i := range v {
		v[i] /= norm
	}
	return v
}

// Norm returns the Euclidean norm of v.
func Norm(v []float64) float64 {
	var sq float64
	for _, x := range v {
		sq += x * x
	}
	return math.Sqrt(sq)
}

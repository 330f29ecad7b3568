package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"strconv"
	"strings"
	"unicode"
)

const (
	DefaultHashDimensions = 384
	hashModelName         = "feature-hash-v1"

	wordWeight    = 1.0
	trigramWeight = 0.5
)

// HashProvider is an offline embedder that feature-hashes word tokens and
// character trigrams into a fixed number of signed buckets. Texts sharing
// words or trigrams land close together; output is L2-normalized.
type HashProvider struct {
	dims int
}

func NewHashProvider(dims int) *HashProvider {
	if dims <= 0 {
		dims = DefaultHashDimensions
	}
	return &HashProvider{dims: dims}
}

func (h *HashProvider) Dimensions() int { return h.dims }

func (h *HashProvider) Model() string {
	return hashModelName + "-" + strconv.Itoa(h.dims)
}

func (h *HashProvider) Embed(ctx context.Context, texts []string) ([]Vector, error) {
	out := make([]Vector, len(texts))
	for i, s := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = h.embedOne(s)
	}
	return out, nil
}

func (h *HashProvider) embedOne(text string) Vector {
	vec := Zero(h.dims)
	norm := strings.ToLower(strings.TrimSpace(text))
	if norm == "" {
		return vec
	}

	for _, w := range tokenize(norm) {
		h.add(vec, "w:"+w, wordWeight)
	}
	padded := []rune(" " + strings.Join(tokenize(norm), " ") + " ")
	for i := 0; i+3 <= len(padded); i++ {
		h.add(vec, "c:"+string(padded[i:i+3]), trigramWeight)
	}

	var sum float64
	for _, x := range vec {
		sum += x * x
	}
	if sum == 0 {
		return vec
	}
	n := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= n
	}
	return vec
}

func (h *HashProvider) add(vec Vector, feature string, weight float64) {
	sum := sha256.Sum256([]byte(feature))
	idx := binary.LittleEndian.Uint64(sum[:8]) % uint64(h.dims)
	if sum[8]&1 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
}

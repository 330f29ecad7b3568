package matching

import (
	"context"
	"sync/atomic"

	"skill-bridge/internal/embedding"
)

// fakeProvider returns fixed vectors by name and a unit vector on the last
// axis for anything else.
type fakeProvider struct {
	dims    int
	vectors map[string]embedding.Vector
	calls   atomic.Int32
}

func (p *fakeProvider) Dimensions() int { return p.dims }
func (p *fakeProvider) Model() string   { return "fake" }

func (p *fakeProvider) Embed(ctx context.Context, texts []string) ([]embedding.Vector, error) {
	p.calls.Add(1)
	out := make([]embedding.Vector, len(texts))
	for i, s := range texts {
		if v, ok := p.vectors[s]; ok {
			out[i] = v.Clone()
			continue
		}
		v := embedding.Zero(p.dims)
		v[p.dims-1] = 1
		out[i] = v
	}
	return out, nil
}

type mapNames map[string]string

func (m mapNames) Name(id string) string { return m[id] }

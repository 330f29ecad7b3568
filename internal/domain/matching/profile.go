package matching

import (
	"context"

	"skill-bridge/internal/embedding"
)

type NameResolver interface {
	Name(id string) string
}

// Aggregator turns a list of skill ids into one profile vector.
type Aggregator struct {
	provider embedding.Provider
	names    NameResolver
}

func NewAggregator(provider embedding.Provider, names NameResolver) *Aggregator {
	return &Aggregator{provider: provider, names: names}
}

func (a *Aggregator) Dimensions() int {
	return a.provider.Dimensions()
}

// Names maps ids to display names. Ids the resolver does not know stand in
// for their own name.
func (a *Aggregator) Names(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		name := ""
		if a.names != nil {
			name = a.names.Name(id)
		}
		if name == "" {
			name = id
		}
		out = append(out, name)
	}
	return out
}

// EmbedProfile mean-pools the embeddings of ids as given. A repeated id
// weighs in once per occurrence; empty ids are skipped.
func (a *Aggregator) EmbedProfile(ctx context.Context, ids []string) (embedding.Vector, error) {
	ids = nonEmpty(ids)
	dims := a.provider.Dimensions()
	if len(ids) == 0 {
		return embedding.Zero(dims), nil
	}

	vecs, err := a.provider.Embed(ctx, a.Names(ids))
	if err != nil {
		return nil, err
	}
	return MeanPool(vecs, dims)
}

func nonEmpty(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

// Package embed provides a lazily-initialized embedder. The API process only
// touches the embedding backend when a query actually needs a vector, so a
// cold backend does not block startup or lexical-only traffic.
package embed

import (
	"context"
	"sync"

	"github.com/talentpool/talent-match/internal/core/ports"
)

type Lazy struct {
	build func() (ports.Embedder, error)

	once     sync.Once
	embedder ports.Embedder
	err      error
}

// NewLazy defers build until the first EmbedQuery call. build runs at most
// once; a build failure is returned on every subsequent call.
func NewLazy(build func() (ports.Embedder, error)) *Lazy {
	return &Lazy{build: build}
}

func (l *Lazy) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	l.once.Do(func() {
		l.embedder, l.err = l.build()
	})
	if l.err != nil {
		return nil, l.err
	}
	return l.embedder.EmbedQuery(ctx, text)
}

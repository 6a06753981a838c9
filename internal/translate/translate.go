// Package translate adds an optional translation layer over bot
// responses. It is a purely additive side-cache around a pluggable
// Translator backend: on a cache hit the backend is never called, on a
// miss the result is written through. Query correctness never depends
// on this package.
package translate

import (
	"context"
	"time"

	"github.com/pricetalk/pricetalk/internal/infra"
	"github.com/pricetalk/pricetalk/internal/logger"
)

// Translator turns text into the target language. Implementations wrap
// whatever external service the deployment uses.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// TranslatorFunc adapts a function to the Translator interface.
type TranslatorFunc func(ctx context.Context, text, targetLang string) (string, error)

func (f TranslatorFunc) Translate(ctx context.Context, text, targetLang string) (string, error) {
	return f(ctx, text, targetLang)
}

// Cache is the read-through/write-through translation cache keyed by
// (text, target language).
type Cache struct {
	backend Translator
	cache   *infra.Cache
}

// New creates a translation cache over backend with the given TTL.
func New(backend Translator, ttl time.Duration) *Cache {
	return &Cache{
		backend: backend,
		cache:   infra.NewCache(ttl),
	}
}

// Translate returns text in targetLang. Failures degrade to the
// original text: a missing translation is never worth failing a turn.
func (c *Cache) Translate(ctx context.Context, text, targetLang string) string {
	if text == "" || targetLang == "" || targetLang == "en" {
		return text
	}

	key := targetLang + "\x00" + text
	if cached, ok := c.cache.Get(key); ok {
		return cached.(string)
	}

	translated, err := c.backend.Translate(ctx, text, targetLang)
	if err != nil {
		logger.WithComponent("translate").WithError(err).Warn("translation failed, using original text")
		return text
	}
	c.cache.Set(key, translated)
	return translated
}

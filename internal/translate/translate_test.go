package translate

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTranslateReadThrough(t *testing.T) {
	calls := 0
	c := New(TranslatorFunc(func(_ context.Context, text, lang string) (string, error) {
		calls++
		return "[" + lang + "]" + text, nil
	}), time.Minute)

	ctx := context.Background()
	if got := c.Translate(ctx, "hello", "fr"); got != "[fr]hello" {
		t.Errorf("got %q", got)
	}
	// Second call must be served from cache.
	if got := c.Translate(ctx, "hello", "fr"); got != "[fr]hello" {
		t.Errorf("got %q", got)
	}
	if calls != 1 {
		t.Errorf("backend calls: got %d, want 1", calls)
	}
}

func TestTranslateKeyIncludesLanguage(t *testing.T) {
	c := New(TranslatorFunc(func(_ context.Context, text, lang string) (string, error) {
		return lang + ":" + text, nil
	}), time.Minute)

	ctx := context.Background()
	if got := c.Translate(ctx, "maize", "fr"); got != "fr:maize" {
		t.Errorf("got %q", got)
	}
	if got := c.Translate(ctx, "maize", "es"); got != "es:maize" {
		t.Errorf("different language must not hit the fr entry: got %q", got)
	}
}

func TestTranslateFailureReturnsOriginal(t *testing.T) {
	c := New(TranslatorFunc(func(_ context.Context, _, _ string) (string, error) {
		return "", errors.New("backend down")
	}), time.Minute)

	if got := c.Translate(context.Background(), "hello", "fr"); got != "hello" {
		t.Errorf("got %q, want original text", got)
	}
}

func TestTranslateEnglishPassthrough(t *testing.T) {
	calls := 0
	c := New(TranslatorFunc(func(_ context.Context, text, _ string) (string, error) {
		calls++
		return text, nil
	}), time.Minute)

	c.Translate(context.Background(), "hello", "en")
	c.Translate(context.Background(), "hello", "")
	if calls != 0 {
		t.Errorf("en/empty target must bypass the backend, got %d calls", calls)
	}
}

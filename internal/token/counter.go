// Package token adapts a BPE tokenizer into the token-count function used to
// bound chunk sizes. Counts are deterministic for a given (text, model) pair.
package token

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktokenloader "github.com/pkoukk/tiktoken-go-loader"
)

// ErrUnknownModel is returned when no encoding can be resolved for the
// requested model name.
var ErrUnknownModel = errors.New("no tokenizer encoding for model")

// DefaultModel is used when a caller passes an empty model name.
const DefaultModel = "gpt-4"

var loaderOnce sync.Once

// Counter counts tokens for named models. Compiled encodings are cached per
// model name; the cache is not observable by callers.
type Counter struct {
	mu        sync.Mutex
	encodings map[string]*tiktoken.Tiktoken
}

// NewCounter creates a token counter backed by the offline BPE vocabularies,
// so no network access is needed to resolve an encoding.
func NewCounter() *Counter {
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktokenloader.NewOfflineLoader())
	})
	return &Counter{encodings: make(map[string]*tiktoken.Tiktoken)}
}

// Count returns the number of tokens in text under the encoding of the given
// model. An empty model name falls back to DefaultModel.
func (c *Counter) Count(text, model string) (int, error) {
	enc, err := c.encoding(model)
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}

// ForModel binds the counter to one model and returns a plain count function.
// The model is resolved eagerly so a bad name fails at construction time.
func (c *Counter) ForModel(model string) (func(string) (int, error), error) {
	if _, err := c.encoding(model); err != nil {
		return nil, err
	}
	return func(text string) (int, error) {
		return c.Count(text, model)
	}, nil
}

func (c *Counter) encoding(model string) (*tiktoken.Tiktoken, error) {
	if model == "" {
		model = DefaultModel
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if enc, ok := c.encodings[model]; ok {
		return enc, nil
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrUnknownModel, model, err)
	}
	c.encodings[model] = enc
	return enc, nil
}

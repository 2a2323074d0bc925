package completion

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// TiktokenCounter counts tokens with the BPE encoding registered for each
// model. Encodings are loaded lazily and cached; the first load may fetch the
// ranks file over the network and runs without holding the cache lock.
type TiktokenCounter struct {
	mu   sync.Mutex
	encs map[string]*tiktoken.Tiktoken
	load func(model string) (*tiktoken.Tiktoken, error)
}

// NewTiktokenCounter returns an empty counter.
func NewTiktokenCounter() *TiktokenCounter {
	return &TiktokenCounter{encs: make(map[string]*tiktoken.Tiktoken), load: tiktoken.EncodingForModel}
}

// Count reports the number of tokens in text, or false when no encoding is
// known for model or it could not be loaded.
func (c *TiktokenCounter) Count(model, text string) (int, bool) {
	enc := c.encoding(model)
	if enc == nil {
		return 0, false
	}
	return len(enc.EncodeOrdinary(text)), true
}

func (c *TiktokenCounter) encoding(model string) *tiktoken.Tiktoken {
	c.mu.Lock()
	enc, ok := c.encs[model]
	c.mu.Unlock()
	if ok {
		return enc
	}

	enc, err := c.load(model)
	if err != nil {
		enc = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// a concurrent load may have won; keep the first result
	if cached, ok := c.encs[model]; ok {
		return cached
	}
	// failures are cached too so a missing model is not retried per request
	c.encs[model] = enc
	return enc
}

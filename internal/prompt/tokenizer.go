package prompt

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Tokenizer counts tokens the way the target model's tokenizer will, and can
// cut text at a token boundary.
type Tokenizer interface {
	Count(text string) int
	Truncate(text string, maxTokens int) string
}

// BPETokenizer wraps a tiktoken encoding.
type BPETokenizer struct {
	enc *tiktoken.Tiktoken
}

// NewBPETokenizer loads the cl100k_base encoding.
func NewBPETokenizer() (*BPETokenizer, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("loading tokenizer encoding: %w", err)
	}
	return &BPETokenizer{enc: enc}, nil
}

// Count returns the number of BPE tokens in text.
func (t *BPETokenizer) Count(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

// Truncate cuts text to at most maxTokens tokens. Text that already fits is
// returned unchanged.
func (t *BPETokenizer) Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	ids := t.enc.Encode(text, nil, nil)
	if len(ids) <= maxTokens {
		return text
	}
	return t.enc.Decode(ids[:maxTokens])
}

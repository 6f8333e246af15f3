package prompt

import (
	"errors"
	"fmt"
)

// ErrBudgetExceeded means the ceiling cannot hold even zero fragments. This
// is a configuration error, never retried or swallowed.
var ErrBudgetExceeded = errors.New("token budget exceeded")

// separator joins fragments in the final prompt. Its tokens count against
// the ceiling because the whole concatenation is re-tokenized.
const separator = ", "

// tierOrder is total: all critical fragments are attempted before any high,
// and so on.
var tierOrder = [...]Tier{TierCritical, TierHigh, TierMedium, TierLow}

// Selection is the optimizer's output: the surviving fragments in order, the
// joined prompt, its token count, and whether token-level truncation was
// applied to an oversized fragment.
type Selection struct {
	Fragments []Fragment
	Prompt    string
	Tokens    int
	Truncated bool
}

// Optimizer fits fragments into a fixed token ceiling by priority tier.
type Optimizer struct {
	tok Tokenizer
}

// NewOptimizer returns an Optimizer backed by the given tokenizer.
func NewOptimizer(tok Tokenizer) *Optimizer {
	return &Optimizer{tok: tok}
}

// Select greedily appends fragments tier by tier, preserving the caller's
// order within a tier and re-tokenizing the running concatenation after each
// addition. The moment a fragment would push the prompt over the ceiling,
// the remainder of that tier and all lower tiers are dropped.
//
// A single fragment that by itself exceeds the ceiling is truncated at the
// token level and reported via Selection.Truncated.
func (o *Optimizer) Select(fragments []Fragment, ceiling int) (Selection, error) {
	if ceiling <= 0 {
		return Selection{}, fmt.Errorf("ceiling %d: %w", ceiling, ErrBudgetExceeded)
	}

	var sel Selection
	for _, tier := range tierOrder {
		for _, f := range fragments {
			if f.Tier != tier {
				continue
			}

			candidate := f.Text
			if sel.Prompt != "" {
				candidate = sel.Prompt + separator + f.Text
			}

			n := o.tok.Count(candidate)
			if n > ceiling {
				if len(sel.Fragments) == 0 {
					// Nothing selected yet, so this one fragment alone
					// blows the budget: cut it at a token boundary
					// instead of dropping it.
					text := o.tok.Truncate(f.Text, ceiling)
					truncFrag := f
					truncFrag.Text = text
					sel.Fragments = append(sel.Fragments, truncFrag)
					sel.Prompt = text
					sel.Tokens = o.tok.Count(text)
					sel.Truncated = true
				}
				return sel, nil
			}

			sel.Prompt = candidate
			sel.Tokens = n
			sel.Fragments = append(sel.Fragments, f)
		}
	}

	return sel, nil
}

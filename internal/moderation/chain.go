package moderation

import "context"

// Chain runs moderators in order. The first Unsafe verdict wins; otherwise
// any Unavailable verdict makes the chain Unavailable.
type Chain []Moderator

func (c Chain) Moderate(ctx context.Context, text string) Verdict {
	result := Safe
	for _, m := range c {
		switch m.Moderate(ctx, text) {
		case Unsafe:
			return Unsafe
		case Unavailable:
			result = Unavailable
		}
	}
	return result
}

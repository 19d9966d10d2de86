// Package moderation decides whether user-submitted text may be published.
// Every moderator fails open: only an explicit Unsafe verdict blocks text.
package moderation

import "context"

// Verdict is the outcome of moderating a piece of text
type Verdict int

const (
	Safe Verdict = iota
	Unsafe
	// Unavailable means the moderator could not decide
	Unavailable
)

func (v Verdict) String() string {
	switch v {
	case Safe:
		return "safe"
	case Unsafe:
		return "unsafe"
	default:
		return "unavailable"
	}
}

// Allowed reports whether text with this verdict may be published
func Allowed(v Verdict) bool {
	return v != Unsafe
}

// Moderator classifies text
type Moderator interface {
	Moderate(ctx context.Context, text string) Verdict
}

// Func adapts a plain function to Moderator
type Func func(ctx context.Context, text string) Verdict

func (f Func) Moderate(ctx context.Context, text string) Verdict {
	return f(ctx, text)
}

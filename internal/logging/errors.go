package logging

import (
	"context"

	"github.com/samber/oops"
)

// LogError logs err at error level. For oops errors the code and context
// collected along the wrap chain are logged as separate attributes.
func LogError(ctx context.Context, l Logger, msg string, err error, args ...any) {
	attrs := append([]any{"error", err.Error()}, args...)

	if oopsErr, ok := oops.AsOops(err); ok {
		if code := oopsErr.Code(); code != nil {
			attrs = append(attrs, "code", code)
		}
		if c := oopsErr.Context(); len(c) > 0 {
			attrs = append(attrs, "context", c)
		}
	}

	l.Error(ctx, msg, attrs...)
}

package admission

import "context"

type requestKey struct{}

// WithRequest stores an admitted request for its listener.
func WithRequest(ctx context.Context, req Request) context.Context {
	return context.WithValue(ctx, requestKey{}, req)
}

// FromContext returns the admitted request, if any.
func FromContext(ctx context.Context) (Request, bool) {
	req, ok := ctx.Value(requestKey{}).(Request)
	return req, ok
}

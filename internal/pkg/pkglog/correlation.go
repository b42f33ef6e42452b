package pkglog

import "context"

type correlationKey struct{}

// WithCorrelationID returns a copy of ctx carrying cid. Records logged with
// the returned context get a "_cID" attribute.
func WithCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, correlationKey{}, cid)
}

// CorrelationID reports the id stored by WithCorrelationID, if any.
func CorrelationID(ctx context.Context) (string, bool) {
	cid, ok := ctx.Value(correlationKey{}).(string)
	return cid, ok && cid != ""
}

package apiclient

import (
	"context"
	"errors"

	"golang.org/x/sync/singleflight"
)

// flightGroup tracks in-flight GET requests so that concurrent identical
// calls share one network round trip. An entry lives only while its call is
// running: singleflight forgets the key before waking the waiters, so a call
// made after settle always goes to the network again.
type flightGroup struct {
	group singleflight.Group

	// joined, when set, is called once a caller is attached to a flight.
	joined func(key string)
}

func newFlightGroup() *flightGroup {
	return &flightGroup{}
}

// do runs fn once per key among concurrent callers. The shared call is
// detached from the first caller's cancellation; each caller still stops
// waiting when its own ctx ends.
func (g *flightGroup) do(ctx context.Context, key string, fn func(context.Context) *Response) *Response {
	shared := context.WithoutCancel(ctx)
	ch := g.group.DoChan(key, func() (any, error) {
		return fn(shared), nil
	})
	if g.joined != nil {
		g.joined(key)
	}

	select {
	case res := <-ch:
		if resp, ok := res.Val.(*Response); ok && resp != nil {
			return resp
		}
		return failure(&Error{Kind: KindTransport, Message: MessageNetworkError})
	case <-ctx.Done():
		return failure(contextError(ctx.Err()))
	}
}

func contextError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Kind: KindTimeout, Message: MessageTimeout}
	}
	return &Error{Kind: KindTransport, Message: MessageNetworkError}
}

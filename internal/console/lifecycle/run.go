package lifecycle

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/console/pkg/idx"
	"github.com/aussiebroadwan/console/pkg/slogx"
)

// Func is the asynchronous body of an operation.
type Func[In, Out any] func(ctx context.Context, arg In) (Out, error)

// Outcome is the settled result of a started operation.
type Outcome[Out any] struct {
	RequestID idx.ID
	Value     Out
	Err       error
}

// Run dispatches op's pending notification, invokes fn and dispatches the
// terminal notification before returning fn's result. A panic in fn is
// reported as a rejection and returned as an error wrapping ErrPanicked.
func Run[In, Out any](ctx context.Context, d Dispatcher, op Op, arg In, fn Func[In, Out]) (Out, error) {
	reqID := idx.New()
	d.Dispatch(Notification{Op: op, Phase: Pending, RequestID: reqID, Arg: arg})
	return settle(ctx, d, op, reqID, arg, fn)
}

// Start dispatches op's pending notification synchronously and runs fn in a
// new goroutine. The returned channel receives exactly one Outcome, after
// the terminal notification has been dispatched.
func Start[In, Out any](ctx context.Context, d Dispatcher, op Op, arg In, fn Func[In, Out]) <-chan Outcome[Out] {
	reqID := idx.New()
	d.Dispatch(Notification{Op: op, Phase: Pending, RequestID: reqID, Arg: arg})

	out := make(chan Outcome[Out], 1)
	go func() {
		v, err := settle(ctx, d, op, reqID, arg, fn)
		out <- Outcome[Out]{RequestID: reqID, Value: v, Err: err}
	}()
	return out
}

func settle[In, Out any](ctx context.Context, d Dispatcher, op Op, reqID idx.ID, arg In, fn Func[In, Out]) (Out, error) {
	ctx = slogx.WithRequestID(ctx, reqID.String())

	v, err := invoke(ctx, arg, fn)
	if err != nil {
		slogx.FromContext(ctx).Debug("operation rejected", "op", op, "error", err)
		d.Dispatch(Notification{Op: op, Phase: Rejected, RequestID: reqID, Arg: arg, Err: Serialize(err)})
		return v, err
	}

	d.Dispatch(Notification{Op: op, Phase: Fulfilled, RequestID: reqID, Arg: arg, Payload: v})
	return v, nil
}

func invoke[In, Out any](ctx context.Context, arg In, fn Func[In, Out]) (v Out, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero Out
			v, err = zero, fmt.Errorf("%w: %v", ErrPanicked, r)
		}
	}()
	return fn(ctx, arg)
}

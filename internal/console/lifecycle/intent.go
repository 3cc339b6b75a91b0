package lifecycle

import (
	"fmt"

	"github.com/aussiebroadwan/console/pkg/idx"
)

// Intent is a named request to change state. Each slice declares its own
// intent types; Notification is the one shared by all of them.
type Intent interface {
	// Type names the intent, "<slice>/<action>", for logs and tests.
	Type() string
}

// Dispatcher accepts intents.
type Dispatcher interface {
	Dispatch(Intent)
}

// DispatchFunc adapts a function to Dispatcher.
type DispatchFunc func(Intent)

func (f DispatchFunc) Dispatch(in Intent) { f(in) }

// Op names an asynchronous operation, e.g. "authentication/login".
type Op string

// Phase is the lifecycle stage a Notification reports.
type Phase int

const (
	Pending Phase = iota
	Fulfilled
	Rejected
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Fulfilled:
		return "fulfilled"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Notification reports one lifecycle phase of one operation invocation.
type Notification struct {
	Op        Op
	Phase     Phase
	RequestID idx.ID

	// Arg is the input the operation was invoked with.
	Arg any
	// Payload is the operation's result. Set only when Phase is Fulfilled.
	Payload any
	// Err is the normalized failure. Set only when Phase is Rejected.
	Err *SerializedError
}

func (n Notification) Type() string {
	return string(n.Op) + "/" + n.Phase.String()
}

// Is reports whether n is the given phase of op.
func (n Notification) Is(op Op, phase Phase) bool {
	return n.Op == op && n.Phase == phase
}

// PayloadAs returns the notification payload as T.
func PayloadAs[T any](n Notification) (T, bool) {
	v, ok := n.Payload.(T)
	return v, ok
}

// ErrorMessage returns the rejection message, or "" when n carries none.
func (n Notification) ErrorMessage() string {
	if n.Err == nil {
		return ""
	}
	return n.Err.Message
}

// OpSet is an explicit group of operations a reducer treats alike.
type OpSet []Op

// Has reports whether op is a member of the set.
func (s OpSet) Has(op Op) bool {
	for _, o := range s {
		if o == op {
			return true
		}
	}
	return false
}

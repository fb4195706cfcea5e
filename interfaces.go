package aflib

import "context"

// Transport is the boundary to the IPC channel carrying attribute messages
// between this device and the hub service. Implementations own framing,
// polling and reconnection; the client only sees whole messages and
// connection transitions.
//
// ReadEvent blocks until an event is available or the context is cancelled,
// returning one of ConnectedEvent, DisconnectedEvent or MessageEvent.
type Transport interface {
	ReadEvent(ctx context.Context) (any, error)
	Send(ctx context.Context, message []byte) error
}

// ConnectedEvent signals the IPC channel to the hub service is up.
type ConnectedEvent struct{}

// DisconnectedEvent signals the IPC channel has been lost, typically because
// the hub service exited. Reconnection is the transport's responsibility.
type DisconnectedEvent struct{}

// MessageEvent carries one whole inbound attribute message.
type MessageEvent struct {
	Message []byte
}

// SetHandler decides whether a remote request to change an attribute is
// accepted. Invoked on the event loop goroutine; it must not block. Under
// asynchronous confirmation mode the return value is ignored and the
// decision is made later via Client.Confirm.
type SetHandler interface {
	HandleSet(attrID uint16, value []byte) bool
}

type SetHandlerFunc func(attrID uint16, value []byte) bool

func (f SetHandlerFunc) HandleSet(attrID uint16, value []byte) bool {
	return f(attrID, value)
}

// NotifyHandler receives an attribute's current value, either because it
// changed on the hub or because it was requested with Client.Get. Invoked on
// the event loop goroutine; it must not block.
type NotifyHandler interface {
	HandleNotify(attrID uint16, value []byte)
}

type NotifyHandlerFunc func(attrID uint16, value []byte)

func (f NotifyHandlerFunc) HandleNotify(attrID uint16, value []byte) {
	f(attrID, value)
}

// ConnectHandler observes hub service connection transitions.
type ConnectHandler interface {
	HandleConnectionState(connected bool)
}

type ConnectHandlerFunc func(connected bool)

func (f ConnectHandlerFunc) HandleConnectionState(connected bool) {
	f(connected)
}

// DisconnectedHandler observes loss of the IPC channel itself.
type DisconnectedHandler interface {
	HandleIPCDisconnected()
}

type DisconnectedHandlerFunc func()

func (f DisconnectedHandlerFunc) HandleIPCDisconnected() {
	f()
}

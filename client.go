package aflib

import (
	"context"
	"fmt"
	"sync"

	"github.com/shimmeringbee/callbacks"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/discard"

	"github.com/edgekit/aflib/profile"
)

// Client mediates attribute state between this device and the hub service
// over a Transport. One Client owns one channel; construct a fresh Client to
// re-initialize.
type Client struct {
	transport     Transport
	setHandler    SetHandler
	notifyHandler NotifyHandler

	callbacks callbacks.AdderCaller

	logger     logwrap.Logger
	debugLevel int

	m                   sync.Mutex
	connectHandler      ConnectHandler
	disconnectedHandler DisconnectedHandler
	connected           bool
	asyncConfirm        bool
	pending             map[uint16]pendingSet
	arrivals            uint64
	schema              *profile.Profile
	started             bool

	sendMu sync.Mutex

	ctx      context.Context
	cancel   context.CancelFunc
	loopDone chan struct{}
}

// pendingSet is an inbound set request awaiting an explicit decision under
// asynchronous confirmation mode.
type pendingSet struct {
	value   []byte
	arrival uint64
}

// New constructs a Client. The transport and both handlers are required;
// connect and disconnected handlers are optional and may be registered at
// any time.
func New(t Transport, setHandler SetHandler, notifyHandler NotifyHandler) (*Client, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: transport is required", ErrInvalidParam)
	}

	if setHandler == nil || notifyHandler == nil {
		return nil, fmt.Errorf("%w: set and notify handlers are required", ErrInvalidParam)
	}

	return &Client{
		transport:     t,
		setHandler:    setHandler,
		notifyHandler: notifyHandler,
		callbacks:     callbacks.Create(),
		logger:        logwrap.New(discard.Discard()),
		pending:       map[uint16]pendingSet{},
	}, nil
}

// Start arms the transport event loop. Returns ErrUnavailable if the loop is
// already armed.
func (c *Client) Start() error {
	c.m.Lock()
	defer c.m.Unlock()

	if c.started {
		return ErrUnavailable
	}

	c.started = true
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.loopDone = make(chan struct{})

	go c.transportLoop()

	return nil
}

// Stop tears the event loop down and waits for it to exit.
func (c *Client) Stop() {
	c.m.Lock()

	if !c.started {
		c.m.Unlock()
		return
	}

	c.started = false
	c.m.Unlock()

	c.cancel()
	<-c.loopDone
}

// SetProfile attaches a parsed profile for outbound validation: Set will
// reject values longer than the attribute's declared maximum. Optional; the
// dispatcher has no other coupling to the schema.
func (c *Client) SetProfile(p *profile.Profile) {
	c.m.Lock()
	defer c.m.Unlock()

	c.schema = p
}

// Connected reports whether the hub service is currently reachable.
func (c *Client) Connected() bool {
	c.m.Lock()
	defer c.m.Unlock()

	return c.connected
}

func (c *Client) send(msg []byte) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	ctx := c.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	if err := c.transport.Send(ctx, msg); err != nil {
		c.logger.LogError(ctx, "Transport send failed.", logwrap.Err(err))
		return ErrUnavailable
	}

	return nil
}

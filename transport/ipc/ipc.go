// Package ipc carries attribute messages to the hub service over a unix
// domain socket, framing each message with a little endian u16 length
// prefix. It reports connect and disconnect transitions as events and
// reconnects on its own; the attribute client never dials.
package ipc

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"sync"
	"time"

	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/discard"
	"github.com/shimmeringbee/logwrap/impl/golog"
	"github.com/shimmeringbee/retry"
	"golang.org/x/sync/semaphore"

	"github.com/edgekit/aflib"
)

// DefaultSocketPath is where the hub service listens.
const DefaultSocketPath = "/var/run/af/hubby.sock"

const (
	DefaultDialTimeout = 5 * time.Second
	DefaultDialRetries = 3

	// A frame carries at most one attribute message, which is bounded by
	// the protocol; anything larger means a corrupt or desynced stream.
	maxFrameSize = 1024

	eventBuffer     = 100
	reconnectPause  = time.Second
	frameHeaderSize = 2
)

type Transport struct {
	path   string
	logger logwrap.Logger

	events chan any

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	dialSem *semaphore.Weighted

	m    sync.Mutex
	conn net.Conn

	writeMu sync.Mutex
}

// New constructs a transport for the hub socket. An empty path selects
// DefaultSocketPath. Start must be called before use.
func New(path string) *Transport {
	if path == "" {
		path = DefaultSocketPath
	}

	return &Transport{
		path:    path,
		logger:  logwrap.New(discard.Discard()),
		events:  make(chan any, eventBuffer),
		dialSem: semaphore.NewWeighted(1),
	}
}

func (t *Transport) WithGoLogger(parentLogger *log.Logger) {
	t.WithLogWrapLogger(logwrap.New(golog.Wrap(parentLogger)))
}

func (t *Transport) WithLogWrapLogger(lw logwrap.Logger) {
	t.logger = lw
}

// Start dials the hub service and begins delivering events. Fails if the
// hub cannot be reached within the dial retry budget.
func (t *Transport) Start() error {
	t.ctx, t.cancel = context.WithCancel(context.Background())
	t.done = make(chan struct{})

	conn, err := t.dialHub(t.ctx)
	if err != nil {
		t.cancel()
		return fmt.Errorf("ipc: connect to hub service: %w", err)
	}

	go t.connectionLoop(conn)

	return nil
}

// Stop closes the channel and waits for the event loop to exit.
func (t *Transport) Stop() {
	if t.cancel == nil {
		return
	}

	t.cancel()

	t.m.Lock()
	if t.conn != nil {
		_ = t.conn.Close()
	}
	t.m.Unlock()

	<-t.done
}

// ReadEvent blocks until the next transport event is available or the
// context is cancelled.
func (t *Transport) ReadEvent(ctx context.Context) (any, error) {
	select {
	case event := <-t.events:
		return event, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Send writes one attribute message as a single frame. Respects any
// deadline carried by the context.
func (t *Transport) Send(ctx context.Context, message []byte) error {
	if len(message) > maxFrameSize {
		return fmt.Errorf("ipc: message of %d bytes exceeds frame limit", len(message))
	}

	t.m.Lock()
	conn := t.conn
	t.m.Unlock()

	if conn == nil {
		return errors.New("ipc: not connected")
	}

	frame := make([]byte, frameHeaderSize+len(message))
	binary.LittleEndian.PutUint16(frame[0:frameHeaderSize], uint16(len(message)))
	copy(frame[frameHeaderSize:], message)

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
		defer conn.SetWriteDeadline(time.Time{})
	}

	if _, err := conn.Write(frame); err != nil {
		return fmt.Errorf("ipc: write: %w", err)
	}

	return nil
}

func (t *Transport) connectionLoop(conn net.Conn) {
	defer close(t.done)

	for {
		t.setConn(conn)
		t.sendEvent(aflib.ConnectedEvent{})

		t.readFrames(conn)

		t.setConn(nil)
		_ = conn.Close()

		if t.ctx.Err() != nil {
			return
		}

		t.sendEvent(aflib.DisconnectedEvent{})

		next, err := t.reconnect()
		if err != nil {
			return
		}

		conn = next
	}
}

func (t *Transport) readFrames(conn net.Conn) {
	for {
		var header [frameHeaderSize]byte

		if _, err := io.ReadFull(conn, header[:]); err != nil {
			if t.ctx.Err() == nil && !errors.Is(err, io.EOF) {
				t.logger.LogWarn(t.ctx, "Hub service connection read failed.", logwrap.Err(err))
			}
			return
		}

		length := int(binary.LittleEndian.Uint16(header[:]))
		if length == 0 || length > maxFrameSize {
			t.logger.LogWarn(t.ctx, "Dropping hub service connection after bad frame length.", logwrap.Datum("length", length))
			return
		}

		payload := make([]byte, length)
		if _, err := io.ReadFull(conn, payload); err != nil {
			if t.ctx.Err() == nil {
				t.logger.LogWarn(t.ctx, "Hub service connection truncated a frame.", logwrap.Err(err))
			}
			return
		}

		t.sendEvent(aflib.MessageEvent{Message: payload})
	}
}

// reconnect dials until it succeeds or the transport stops. Single flight:
// only one dial attempt runs at a time, however Start and the loop
// interleave.
func (t *Transport) reconnect() (net.Conn, error) {
	if err := t.dialSem.Acquire(t.ctx, 1); err != nil {
		return nil, err
	}
	defer t.dialSem.Release(1)

	for {
		conn, err := t.dialHub(t.ctx)
		if err == nil {
			return conn, nil
		}

		if t.ctx.Err() != nil {
			return nil, t.ctx.Err()
		}

		t.logger.LogWarn(t.ctx, "Reconnect to hub service failed, pausing before retry.", logwrap.Err(err))

		select {
		case <-time.After(reconnectPause):
		case <-t.ctx.Done():
			return nil, t.ctx.Err()
		}
	}
}

func (t *Transport) dialHub(ctx context.Context) (net.Conn, error) {
	var conn net.Conn

	err := retry.Retry(ctx, DefaultDialTimeout, DefaultDialRetries, func(ctx context.Context) error {
		var err error
		conn, err = (&net.Dialer{}).DialContext(ctx, "unix", t.path)
		return err
	})

	if err != nil {
		return nil, err
	}

	return conn, nil
}

func (t *Transport) setConn(conn net.Conn) {
	t.m.Lock()
	defer t.m.Unlock()

	t.conn = conn
}

func (t *Transport) sendEvent(event any) {
	select {
	case t.events <- event:
	default:
		t.logger.LogError(t.ctx, "Event buffer full, dropping transport event.", logwrap.Datum("event", fmt.Sprintf("%T", event)))
	}
}

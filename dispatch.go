package aflib

import (
	"context"
	"errors"

	"github.com/shimmeringbee/logwrap"
)

func (c *Client) transportLoop() {
	defer close(c.loopDone)

	for {
		event, err := c.transport.ReadEvent(c.ctx)

		if err != nil {
			if errors.Is(err, context.Canceled) {
				c.logger.LogInfo(c.ctx, "Transport loop terminating due to cancelled context.")
			} else {
				c.logger.LogError(c.ctx, "Failed to read event from transport.", logwrap.Err(err))
			}
			return
		}

		switch e := event.(type) {
		case ConnectedEvent:
			c.receiveConnectionState(true)
		case DisconnectedEvent:
			c.receiveConnectionState(false)
		case MessageEvent:
			c.receiveMessage(e.Message)
		}
	}
}

func (c *Client) receiveMessage(msg []byte) {
	decoded, err := decodeMessage(msg)

	if err != nil {
		// Protocol corruption from the semi-trusted hub peer is not
		// surfaced to the caller.
		c.logger.LogWarn(c.ctx, "Dropping malformed message from hub service.", logwrap.Err(err))
		return
	}

	switch m := decoded.(type) {
	case setRequest:
		c.receiveSetRequest(m)
	case notify:
		c.receiveNotify(m)
	default:
		c.logger.LogWarn(c.ctx, "Dropping message with unexpected direction from hub service.")
	}
}

func (c *Client) receiveSetRequest(m setRequest) {
	c.m.Lock()

	if c.asyncConfirm {
		c.arrivals++

		if _, overwrite := c.pending[m.attrID]; overwrite {
			c.logger.LogWarn(c.ctx, "Set request superseded while awaiting confirmation.", logwrap.Datum("attrID", m.attrID))
		}

		c.pending[m.attrID] = pendingSet{value: m.value, arrival: c.arrivals}
		c.m.Unlock()

		// The handler still sees the request; its return value is ignored
		// and the response deferred until Confirm. Pending state is stored
		// first so the handler may confirm immediately if it wishes.
		c.setHandler.HandleSet(m.attrID, m.value)

		c.debug(Debug2, "Set request queued awaiting confirmation.", logwrap.Datum("attrID", m.attrID))
		return
	}

	c.m.Unlock()

	accepted := c.setHandler.HandleSet(m.attrID, m.value)

	c.debug(Debug2, "Set request decided synchronously.", logwrap.Datum("attrID", m.attrID), logwrap.Datum("accepted", accepted))

	if err := c.send(encodeSetResponse(m.attrID, accepted)); err != nil {
		c.logger.LogError(c.ctx, "Failed to send set response.", logwrap.Datum("attrID", m.attrID), logwrap.Err(err))
	}
}

func (c *Client) receiveNotify(m notify) {
	c.debug(Debug3, "Attribute notification received.", logwrap.Datum("attrID", m.attrID), logwrap.Datum("length", len(m.value)))

	if err := c.callbacks.Call(c.ctx, attributeUpdate{attrID: m.attrID, value: m.value}); err != nil {
		c.logger.LogError(c.ctx, "Attribute update callback failed.", logwrap.Datum("attrID", m.attrID), logwrap.Err(err))
	}

	c.notifyHandler.HandleNotify(m.attrID, m.value)
}

// SetConfirmationMode toggles how inbound set requests are decided. Sync
// (the default) asks the set handler immediately; async queues the request
// until Confirm is called. Only requests received after the call are
// affected.
func (c *Client) SetConfirmationMode(async bool) {
	c.m.Lock()
	defer c.m.Unlock()

	c.asyncConfirm = async
}

// Confirm settles a queued set request with an accept or reject response.
// If no request is pending for the attribute id the call is a no-op, which
// makes duplicate or late confirmations harmless.
func (c *Client) Confirm(attrID uint16, accepted bool) {
	c.m.Lock()

	p, ok := c.pending[attrID]
	if !ok {
		c.m.Unlock()
		return
	}

	delete(c.pending, attrID)
	c.m.Unlock()

	c.debug(Debug2, "Confirming queued set request.", logwrap.Datum("attrID", attrID), logwrap.Datum("accepted", accepted), logwrap.Datum("arrival", p.arrival))

	if err := c.send(encodeSetResponse(attrID, accepted)); err != nil {
		c.logger.LogError(c.ctx, "Failed to send deferred set response.", logwrap.Datum("attrID", attrID), logwrap.Err(err))
	}
}

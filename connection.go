package aflib

import "github.com/shimmeringbee/logwrap"

// SetConnectHandler registers or replaces the handler observing hub service
// connection transitions. A nil handler unregisters.
func (c *Client) SetConnectHandler(h ConnectHandler) {
	c.m.Lock()
	defer c.m.Unlock()

	c.connectHandler = h
}

// SetDisconnectedHandler registers or replaces the handler observing loss of
// the IPC channel. A nil handler unregisters.
func (c *Client) SetDisconnectedHandler(h DisconnectedHandler) {
	c.m.Lock()
	defer c.m.Unlock()

	c.disconnectedHandler = h
}

// receiveConnectionState reflects a transport transition into the connected
// flag and fans it out, exactly once per transition. Pending set requests
// are cleared on disconnect, since their confirmations can no longer be
// delivered.
func (c *Client) receiveConnectionState(connected bool) {
	c.m.Lock()

	if c.connected == connected {
		c.m.Unlock()
		return
	}

	c.connected = connected

	cleared := 0
	if !connected && len(c.pending) > 0 {
		cleared = len(c.pending)
		c.pending = map[uint16]pendingSet{}
	}

	connectHandler := c.connectHandler
	disconnectedHandler := c.disconnectedHandler
	c.m.Unlock()

	c.logger.LogInfo(c.ctx, "Hub service connection state changed.", logwrap.Datum("connected", connected))

	if cleared > 0 {
		c.logger.LogWarn(c.ctx, "Cleared pending set requests on disconnect.", logwrap.Datum("count", cleared))
	}

	if err := c.callbacks.Call(c.ctx, connectionTransition{connected: connected}); err != nil {
		c.logger.LogError(c.ctx, "Connection transition callback failed.", logwrap.Err(err))
	}

	if connectHandler != nil {
		connectHandler.HandleConnectionState(connected)
	}

	if !connected {
		if err := c.callbacks.Call(c.ctx, ipcLost{}); err != nil {
			c.logger.LogError(c.ctx, "IPC lost callback failed.", logwrap.Err(err))
		}

		if disconnectedHandler != nil {
			disconnectedHandler.HandleIPCDisconnected()
		}
	}
}

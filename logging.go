package aflib

import (
	"log"

	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/golog"
)

// Debug verbosity levels for SetDebugLevel. The default is DebugOff.
const (
	DebugOff = iota
	Debug1
	Debug2
	Debug3
	Debug4
)

func (c *Client) WithGoLogger(parentLogger *log.Logger) {
	c.WithLogWrapLogger(logwrap.New(golog.Wrap(parentLogger)))
}

func (c *Client) WithLogWrapLogger(lw logwrap.Logger) {
	c.logger = lw
}

// SetDebugLevel adjusts protocol debug verbosity, DebugOff through Debug4.
// Verbosity only; no behavioral effect on the protocol.
func (c *Client) SetDebugLevel(level int) {
	c.m.Lock()
	defer c.m.Unlock()

	c.debugLevel = level
}

func (c *Client) debug(level int, msg string, options ...logwrap.Option) {
	c.m.Lock()
	enabled := c.debugLevel >= level
	c.m.Unlock()

	if enabled {
		c.logger.LogDebug(c.ctx, msg, options...)
	}
}

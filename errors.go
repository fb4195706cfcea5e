package aflib

import "errors"

var (
	// ErrInvalidParam is returned when a caller-supplied argument is
	// unusable, such as an oversized value or a missing required handler.
	// No state has been mutated.
	ErrInvalidParam = errors.New("invalid parameter")

	// ErrUnavailable is returned when the hub service cannot currently be
	// reached, either because the channel is down or because a transport
	// send failed. The operation was a no-op; retry after reconnection.
	ErrUnavailable = errors.New("hub service unavailable")
)

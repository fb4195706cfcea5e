package rules

import (
	"context"

	"github.com/shimmeringbee/logwrap"

	"github.com/edgekit/aflib"
	"github.com/edgekit/aflib/profile"
)

// NewSetHandler adapts an Engine into the client's set handler. The profile
// is optional; without one the filter environment carries only the request
// itself. Evaluation failures reject the request, failing closed.
func NewSetHandler(e *Engine, p *profile.Profile, l logwrap.Logger) aflib.SetHandler {
	return aflib.SetHandlerFunc(func(attrID uint16, value []byte) bool {
		in := Input{
			AttrID: int(attrID),
			Length: len(value),
			Value:  value,
		}

		if p != nil {
			if a := p.Find(attrID); a != nil {
				in.Type = int(a.Type)
				in.Flags = int(a.Flags)
				in.Writable = a.Writable()
			}
		}

		accepted, err := e.Execute(in)
		if err != nil {
			l.LogError(context.Background(), "Set policy evaluation failed, rejecting request.", logwrap.Datum("attrID", attrID), logwrap.Err(err))
			return false
		}

		return accepted
	})
}

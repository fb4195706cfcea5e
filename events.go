package aflib

// Internal events fanned out over the client's callback bus. Connection
// transitions and attribute updates travel this way so that supporting
// components observe them without coupling to the dispatcher.

type connectionTransition struct {
	connected bool
}

type ipcLost struct{}

type attributeUpdate struct {
	attrID uint16
	value  []byte
}

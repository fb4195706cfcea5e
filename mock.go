package aflib

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) ReadEvent(ctx context.Context) (any, error) {
	args := m.Called(ctx)
	return args.Get(0), args.Error(1)
}

func (m *MockTransport) Send(ctx context.Context, message []byte) error {
	return m.Called(ctx, message).Error(0)
}

var _ Transport = (*MockTransport)(nil)

type MockSetHandler struct {
	mock.Mock
}

func (m *MockSetHandler) HandleSet(attrID uint16, value []byte) bool {
	return m.Called(attrID, value).Bool(0)
}

var _ SetHandler = (*MockSetHandler)(nil)

type MockNotifyHandler struct {
	mock.Mock
}

func (m *MockNotifyHandler) HandleNotify(attrID uint16, value []byte) {
	m.Called(attrID, value)
}

var _ NotifyHandler = (*MockNotifyHandler)(nil)

type MockConnectHandler struct {
	mock.Mock
}

func (m *MockConnectHandler) HandleConnectionState(connected bool) {
	m.Called(connected)
}

var _ ConnectHandler = (*MockConnectHandler)(nil)

type MockDisconnectedHandler struct {
	mock.Mock
}

func (m *MockDisconnectedHandler) HandleIPCDisconnected() {
	m.Called()
}

var _ DisconnectedHandler = (*MockDisconnectedHandler)(nil)

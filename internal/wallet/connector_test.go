package wallet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/token-dashboard/internal/events"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishSync(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func TestConnectDisconnectPublishesInOrder(t *testing.T) {
	pub := &mockPublisher{}
	var seen []events.EventType
	pub.On("PublishSync", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			seen = append(seen, args.Get(1).(events.Event).Type())
		}).
		Return(nil)

	w := NewMockConnector("", pub, zaptest.NewLogger(t))

	_, ok := w.Address()
	assert.False(t, ok)

	addr, err := w.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultAddress, addr)

	// reconnecting is a no-op
	_, err = w.Connect(context.Background())
	require.NoError(t, err)

	got, ok := w.Address()
	assert.True(t, ok)
	assert.Equal(t, DefaultAddress, got)

	w.Disconnect()
	w.Disconnect()

	_, ok = w.Address()
	assert.False(t, ok)
	assert.Equal(t, []events.EventType{events.WalletConnected, events.WalletDisconnected}, seen)
	pub.AssertNumberOfCalls(t, "PublishSync", 2)
}

func TestConnectedEventCarriesAddress(t *testing.T) {
	pub := &mockPublisher{}
	pub.On("PublishSync", mock.Anything, mock.MatchedBy(func(e events.Event) bool {
		ev, ok := e.(events.WalletConnectedEvent)
		return ok && ev.Address == "0xabc"
	})).Return(nil).Once()

	w := NewMockConnector("0xabc", pub, nil)
	_, err := w.Connect(context.Background())
	require.NoError(t, err)
	pub.AssertExpectations(t)
}

func TestConnectCancelled(t *testing.T) {
	w := NewMockConnector("", nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.Connect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, ok := w.Address()
	assert.False(t, ok)
}

func TestSignMessage(t *testing.T) {
	w := NewMockConnector("", nil, nil)

	_, err := w.SignMessage(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = w.Connect(context.Background())
	require.NoError(t, err)

	sig, err := w.SignMessage(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, MockSignature, sig)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
)

type mockController struct {
	mock.Mock
}

func (m *mockController) Reserve(ctx context.Context, cmd emobility.ReservationCommand) (emobility.ReservationResult, error) {
	args := m.Called(ctx, cmd.EVSEID)
	return args.Get(0).(emobility.ReservationResult), args.Error(1)
}

func (m *mockController) CancelReservation(ctx context.Context, cmd emobility.SessionCommand) (emobility.CancelReservationResult, error) {
	args := m.Called(ctx, cmd.EVSEID)
	return args.Get(0).(emobility.CancelReservationResult), args.Error(1)
}

func (m *mockController) RemoteStart(ctx context.Context, cmd emobility.ReservationCommand) (emobility.RemoteStartResult, error) {
	args := m.Called(ctx, cmd.EVSEID)
	return args.Get(0).(emobility.RemoteStartResult), args.Error(1)
}

func (m *mockController) RemoteStop(ctx context.Context, cmd emobility.SessionCommand) (emobility.RemoteStopResult, error) {
	args := m.Called(ctx, cmd.EVSEID)
	return args.Get(0).(emobility.RemoteStopResult), args.Error(1)
}

func bufferWith(records ...emobility.StatusRecord) *StatusBuffer {
	b := NewStatusBuffer()
	for _, r := range records {
		b.Record(testOperator, r)
	}
	return b
}

func TestCommandBridge_ReservePrechecks(t *testing.T) {
	tests := []struct {
		name   string
		status emobility.EVSEStatus
		known  bool
		want   emobility.ReservationResult
	}{
		{"unknown evse", 0, false, emobility.ReservationUnknownEVSE},
		{"evse not found status", emobility.StatusEvseNotFound, true, emobility.ReservationUnknownEVSE},
		{"out of service", emobility.StatusOutOfService, true, emobility.ReservationOutOfService},
		{"reserved", emobility.StatusReserved, true, emobility.ReservationAlreadyReserved},
		{"occupied", emobility.StatusOccupied, true, emobility.ReservationAlreadyInUse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewStatusBuffer()
			if tt.known {
				b.Record(testOperator, status("DE*ABC*E1", tt.status, 0))
			}
			ctrl := &mockController{}
			bridge := NewCommandBridge(b, ctrl, nil)

			got, err := bridge.Reserve(context.Background(), emobility.ReservationCommand{EVSEID: "DE*ABC*E1"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			ctrl.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything)
		})
	}
}

func TestCommandBridge_ReserveUpdatesStatus(t *testing.T) {
	b := bufferWith(status("DE*ABC*E1", emobility.StatusAvailable, 0))
	ctrl := &mockController{}
	ctrl.On("Reserve", mock.Anything, emobility.EVSEID("DE*ABC*E1")).Return(emobility.ReservationSuccess, nil).Once()
	ctrl.On("CancelReservation", mock.Anything, emobility.EVSEID("DE*ABC*E1")).Return(emobility.CancelReservationSuccess, nil).Once()

	bridge := NewCommandBridge(b, ctrl, nil)
	ctx := context.Background()

	got, err := bridge.Reserve(ctx, emobility.ReservationCommand{EVSEID: "DE*ABC*E1"})
	require.NoError(t, err)
	assert.Equal(t, emobility.ReservationSuccess, got)
	rec, _ := b.Lookup(testOperator, "DE*ABC*E1")
	assert.Equal(t, emobility.StatusReserved, rec.Status)

	cancelled, err := bridge.CancelReservation(ctx, emobility.SessionCommand{EVSEID: "DE*ABC*E1", SessionID: "s-1"})
	require.NoError(t, err)
	assert.Equal(t, emobility.CancelReservationSuccess, cancelled)
	rec, _ = b.Lookup(testOperator, "DE*ABC*E1")
	assert.Equal(t, emobility.StatusAvailable, rec.Status)
	ctrl.AssertExpectations(t)
}

func TestCommandBridge_RemoteStartStop(t *testing.T) {
	b := bufferWith(status("DE*ABC*E1", emobility.StatusAvailable, 0))
	ctrl := &mockController{}
	ctrl.On("RemoteStart", mock.Anything, emobility.EVSEID("DE*ABC*E1")).Return(emobility.RemoteStartSuccess, nil).Once()
	ctrl.On("RemoteStop", mock.Anything, emobility.EVSEID("DE*ABC*E1")).Return(emobility.RemoteStopSuccess, nil).Once()
	bridge := NewCommandBridge(b, ctrl, nil)
	ctx := context.Background()

	stopped, err := bridge.RemoteStop(ctx, emobility.SessionCommand{EVSEID: "DE*ABC*E1", SessionID: "s-1"})
	require.NoError(t, err)
	assert.Equal(t, emobility.RemoteStopInvalidSessionID, stopped)

	started, err := bridge.RemoteStart(ctx, emobility.ReservationCommand{EVSEID: "DE*ABC*E1"})
	require.NoError(t, err)
	assert.Equal(t, emobility.RemoteStartSuccess, started)

	again, err := bridge.RemoteStart(ctx, emobility.ReservationCommand{EVSEID: "DE*ABC*E1"})
	require.NoError(t, err)
	assert.Equal(t, emobility.RemoteStartAlreadyInUse, again)

	stopped, err = bridge.RemoteStop(ctx, emobility.SessionCommand{EVSEID: "DE*ABC*E1", SessionID: "s-1"})
	require.NoError(t, err)
	assert.Equal(t, emobility.RemoteStopSuccess, stopped)

	rec, _ := b.Lookup(testOperator, "DE*ABC*E1")
	assert.Equal(t, emobility.StatusAvailable, rec.Status)
	ctrl.AssertExpectations(t)
}

func TestCommandBridge_NoController(t *testing.T) {
	b := bufferWith(status("DE*ABC*E1", emobility.StatusAvailable, 0))
	bridge := NewCommandBridge(b, nil, nil)

	got, err := bridge.RemoteStart(context.Background(), emobility.ReservationCommand{EVSEID: "DE*ABC*E1"})
	require.NoError(t, err)
	assert.Zero(t, got)

	unknown, err := bridge.RemoteStart(context.Background(), emobility.ReservationCommand{EVSEID: "DE*ABC*E9"})
	require.NoError(t, err)
	assert.Equal(t, emobility.RemoteStartUnknownEVSE, unknown)
}

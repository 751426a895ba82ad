package synchronizer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
)

type mockPusher struct {
	mock.Mock
	mu       sync.Mutex
	requests []emobility.PushStatusRequest
}

func (m *mockPusher) PushStatus(ctx context.Context, req emobility.PushStatusRequest) *emobility.PushResult {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	args := m.Called(ctx, req.Action)
	res, _ := args.Get(0).(*emobility.PushResult)
	return res
}

func (m *mockPusher) request(action emobility.SyncAction) (emobility.PushStatusRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.Action == action {
			return r, true
		}
	}
	return emobility.PushStatusRequest{}, false
}

func pushed(action emobility.SyncAction, status emobility.PushStatus) *emobility.PushResult {
	return &emobility.PushResult{Status: status, Action: action}
}

func fixedClock() time.Time { return t0 }

func TestSync_NewAndChanged(t *testing.T) {
	p := &mockPusher{}
	p.On("PushStatus", mock.Anything, emobility.ActionInsert).Return(pushed(emobility.ActionInsert, emobility.PushSuccess)).Once()
	p.On("PushStatus", mock.Anything, emobility.ActionUpdate).Return(pushed(emobility.ActionUpdate, emobility.PushSuccess)).Once()

	previous := []emobility.StatusRecord{rec("E1", emobility.StatusAvailable, 0)}
	current := []emobility.StatusRecord{
		rec("E1", emobility.StatusOccupied, time.Minute),
		rec("E2", emobility.StatusAvailable, time.Minute),
	}

	s := New(p, WithClock(fixedClock), WithOperatorName("ACME"))
	report, err := s.Sync(context.Background(), ComputeDiff("DE*ABC", previous, current))

	require.NoError(t, err)
	assert.True(t, report.Succeeded())
	assert.Equal(t, 2, report.Requests())
	p.AssertExpectations(t)
	p.AssertNotCalled(t, "PushStatus", mock.Anything, emobility.ActionDelete)

	insert, ok := p.request(emobility.ActionInsert)
	require.True(t, ok)
	assert.Equal(t, emobility.OperatorID("DE*ABC"), insert.OperatorID)
	require.NotNil(t, insert.OperatorName)
	assert.Equal(t, "ACME", *insert.OperatorName)
	assert.Equal(t, []emobility.StatusRecord{{ID: "E2", Status: emobility.StatusAvailable, Timestamp: t0}}, insert.Records)

	update, ok := p.request(emobility.ActionUpdate)
	require.True(t, ok)
	assert.Equal(t, []emobility.StatusRecord{{ID: "E1", Status: emobility.StatusOccupied, Timestamp: t0}}, update.Records)
}

func TestSync_NoChangesNoRequests(t *testing.T) {
	p := &mockPusher{}
	snapshot := []emobility.StatusRecord{rec("E1", emobility.StatusAvailable, 0)}

	report, err := New(p).Sync(context.Background(), ComputeDiff("DE*ABC", snapshot, snapshot))

	require.NoError(t, err)
	assert.True(t, report.Succeeded())
	assert.Zero(t, report.Requests())
	p.AssertNotCalled(t, "PushStatus", mock.Anything, mock.Anything)
}

func TestSync_RemovedForcedOutOfService(t *testing.T) {
	p := &mockPusher{}
	p.On("PushStatus", mock.Anything, emobility.ActionDelete).Return(pushed(emobility.ActionDelete, emobility.PushSuccess)).Once()

	diff := ComputeDiff("DE*ABC", []emobility.StatusRecord{rec("E7", emobility.StatusAvailable, 0)}, nil)
	_, err := New(p, WithClock(fixedClock)).Sync(context.Background(), diff)

	require.NoError(t, err)
	del, ok := p.request(emobility.ActionDelete)
	require.True(t, ok)
	require.Len(t, del.Records, 1)
	assert.Equal(t, emobility.StatusOutOfService, del.Records[0].Status)
}

func TestSync_FailedBatch(t *testing.T) {
	p := &mockPusher{}
	p.On("PushStatus", mock.Anything, emobility.ActionInsert).Return(pushed(emobility.ActionInsert, emobility.PushSuccess))
	p.On("PushStatus", mock.Anything, emobility.ActionUpdate).Return(pushed(emobility.ActionUpdate, emobility.PushRejected))

	previous := []emobility.StatusRecord{rec("E1", emobility.StatusAvailable, 0)}
	current := []emobility.StatusRecord{rec("E1", emobility.StatusOccupied, 0), rec("E2", emobility.StatusAvailable, 0)}

	report, err := New(p).Sync(context.Background(), ComputeDiff("DE*ABC", previous, current))

	var failed BatchFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, emobility.ActionUpdate, failed.Action)
	assert.Equal(t, emobility.PushRejected, failed.Status)
	assert.False(t, report.Succeeded())
	assert.Equal(t, 2, report.Requests())
}

func TestSync_TimeoutBatch(t *testing.T) {
	p := &mockPusher{}
	p.On("PushStatus", mock.Anything, emobility.ActionInsert).Return(pushed(emobility.ActionInsert, emobility.PushTimeout))

	diff := ComputeDiff("DE*ABC", nil, []emobility.StatusRecord{rec("E1", emobility.StatusAvailable, 0)})
	report, err := New(p).Sync(context.Background(), diff)

	var failed BatchFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, emobility.PushTimeout, failed.Status)
	assert.False(t, report.Succeeded())
}

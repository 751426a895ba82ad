package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
)

const testOperator = emobility.OperatorID("DE*ABC")

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func status(id emobility.EVSEID, st emobility.EVSEStatus, offset time.Duration) emobility.StatusRecord {
	return emobility.StatusRecord{ID: id, Status: st, Timestamp: t0.Add(offset)}
}

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

func (m *mockPusher) PushStationData(ctx context.Context, req emobility.PushStationDataRequest) *emobility.PushResult {
	args := m.Called(ctx, req.Action, len(req.Records))
	res, _ := args.Get(0).(*emobility.PushResult)
	return res
}

func pushed(action emobility.SyncAction, st emobility.PushStatus) *emobility.PushResult {
	return &emobility.PushResult{Status: st, Action: action}
}

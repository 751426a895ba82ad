package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
)

func station(id emobility.EVSEID) emobility.StationRecord {
	return emobility.StationRecord{
		EVSEID:     id,
		OperatorID: testOperator,
		Address:    &emobility.Address{Country: "DEU", City: "Berlin", Street: "Alexanderplatz"},
	}
}

func TestStationSync_FullLoad(t *testing.T) {
	catalog := NewStationCatalog()
	catalog.Put(station("DE*ABC*E2"))
	catalog.Put(station("DE*ABC*E1"))

	p := &mockPusher{}
	p.On("PushStationData", mock.Anything, emobility.ActionFullLoad, 2).Return(pushed(emobility.ActionFullLoad, emobility.PushSuccess)).Once()

	svc := NewStationSyncService(p, catalog, "ACME", nil)
	res, err := svc.FullLoad(context.Background(), testOperator)
	require.NoError(t, err)
	assert.Equal(t, emobility.PushSuccess, res.Status)
	p.AssertExpectations(t)
}

func TestStationSync_PushRejected(t *testing.T) {
	p := &mockPusher{}
	p.On("PushStationData", mock.Anything, emobility.ActionUpdate, 1).Return(pushed(emobility.ActionUpdate, emobility.PushRejected)).Once()

	svc := NewStationSyncService(p, NewStationCatalog(), "", nil)
	res, err := svc.Push(context.Background(), testOperator, emobility.ActionUpdate, []emobility.StationRecord{station("DE*ABC*E1")})
	assert.ErrorContains(t, err, "Update station push failed")
	require.NotNil(t, res)
	assert.Equal(t, emobility.PushRejected, res.Status)
}

func TestLoadStationCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stations.json")
	content := `[
  {"evse_id":"DE*ABC*E1","operator_id":"DE*ABC","address":{"country":"DEU","city":"Berlin","street":"Alexanderplatz"}},
  {"evse_id":"DE*OTH*E9","operator_id":"DE*OTH"}
]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	catalog, err := LoadStationCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []emobility.OperatorID{"DE*ABC", "DE*OTH"}, catalog.Operators())

	stations, err := catalog.Stations(context.Background(), testOperator)
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, "Berlin", stations[0].Address.City)

	_, err = LoadStationCatalog(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

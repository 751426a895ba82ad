package synchronizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func rec(id string, st emobility.EVSEStatus, offset time.Duration) emobility.StatusRecord {
	return emobility.StatusRecord{ID: emobility.EVSEID(id), Status: st, Timestamp: t0.Add(offset)}
}

func TestReduce_LatestTimestampWins(t *testing.T) {
	got := Reduce([]emobility.StatusRecord{
		rec("E1", emobility.StatusOccupied, 2*time.Minute),
		rec("E1", emobility.StatusAvailable, time.Minute),
		rec("E2", emobility.StatusReserved, 0),
	})

	require.Len(t, got, 2)
	assert.Equal(t, emobility.StatusOccupied, got["E1"].Status)
	assert.Equal(t, emobility.StatusReserved, got["E2"].Status)
}

func TestReduce_TieLastInInputOrderWins(t *testing.T) {
	got := Reduce([]emobility.StatusRecord{
		rec("E1", emobility.StatusAvailable, 0),
		rec("E1", emobility.StatusOutOfService, 0),
	})
	assert.Equal(t, emobility.StatusOutOfService, got["E1"].Status)
}

func TestComputeDiff(t *testing.T) {
	tests := []struct {
		name     string
		previous []emobility.StatusRecord
		current  []emobility.StatusRecord
		newIDs   map[emobility.EVSEID]emobility.EVSEStatus
		changed  map[emobility.EVSEID]emobility.EVSEStatus
		removed  []emobility.EVSEID
	}{
		{
			name:     "new changed and removed",
			previous: []emobility.StatusRecord{rec("E1", emobility.StatusAvailable, 0), rec("E3", emobility.StatusAvailable, 0)},
			current:  []emobility.StatusRecord{rec("E1", emobility.StatusOccupied, time.Minute), rec("E2", emobility.StatusAvailable, 0)},
			newIDs:   map[emobility.EVSEID]emobility.EVSEStatus{"E2": emobility.StatusAvailable},
			changed:  map[emobility.EVSEID]emobility.EVSEStatus{"E1": emobility.StatusOccupied},
			removed:  []emobility.EVSEID{"E3"},
		},
		{
			name:     "timestamp only change is not a change",
			previous: []emobility.StatusRecord{rec("E1", emobility.StatusAvailable, 0)},
			current:  []emobility.StatusRecord{rec("E1", emobility.StatusAvailable, time.Hour)},
		},
		{
			name:     "history collapses before comparing",
			previous: []emobility.StatusRecord{rec("E1", emobility.StatusAvailable, 0)},
			current: []emobility.StatusRecord{
				rec("E1", emobility.StatusOccupied, time.Minute),
				rec("E1", emobility.StatusAvailable, 2*time.Minute),
			},
		},
		{
			name:    "empty previous makes everything new",
			current: []emobility.StatusRecord{rec("E1", emobility.StatusReserved, 0)},
			newIDs:  map[emobility.EVSEID]emobility.EVSEStatus{"E1": emobility.StatusReserved},
		},
		{
			name:     "empty current removes everything",
			previous: []emobility.StatusRecord{rec("E1", emobility.StatusReserved, 0)},
			removed:  []emobility.EVSEID{"E1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff := ComputeDiff("DE*ABC", tt.previous, tt.current)

			assert.Equal(t, emobility.OperatorID("DE*ABC"), diff.OperatorID)
			assert.Equal(t, len(tt.newIDs), len(diff.NewStatus))
			for id, st := range tt.newIDs {
				assert.Equal(t, st, diff.NewStatus[id])
			}
			assert.Equal(t, len(tt.changed), len(diff.ChangedStatus))
			for id, st := range tt.changed {
				assert.Equal(t, st, diff.ChangedStatus[id])
			}
			assert.Equal(t, len(tt.removed), len(diff.RemovedIDs))
			for _, id := range tt.removed {
				assert.Contains(t, diff.RemovedIDs, id)
			}
		})
	}
}

func TestComputeDiff_BucketsAreDisjoint(t *testing.T) {
	previous := []emobility.StatusRecord{
		rec("E1", emobility.StatusAvailable, 0),
		rec("E2", emobility.StatusOccupied, 0),
		rec("E3", emobility.StatusReserved, 0),
	}
	current := []emobility.StatusRecord{
		rec("E2", emobility.StatusAvailable, 0),
		rec("E3", emobility.StatusReserved, 0),
		rec("E4", emobility.StatusOutOfService, 0),
	}

	diff := ComputeDiff("DE*ABC", previous, current)

	seen := map[emobility.EVSEID]int{}
	for id := range diff.NewStatus {
		seen[id]++
	}
	for id := range diff.ChangedStatus {
		seen[id]++
	}
	for id := range diff.RemovedIDs {
		seen[id]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "EVSE %s appears in %d buckets", id, n)
	}
	assert.NotContains(t, seen, emobility.EVSEID("E3"))
}

func TestComputeDiff_Idempotent(t *testing.T) {
	snapshot := []emobility.StatusRecord{
		rec("E1", emobility.StatusAvailable, 0),
		rec("E2", emobility.StatusOccupied, time.Minute),
	}

	diff := ComputeDiff("DE*ABC", snapshot, snapshot)

	assert.True(t, diff.IsEmpty())
	assert.Empty(t, Plan(diff, t0))
}

func TestPlan(t *testing.T) {
	diff := emobility.StatusDiff{
		OperatorID:    "DE*ABC",
		NewStatus:     map[emobility.EVSEID]emobility.EVSEStatus{"E9": emobility.StatusAvailable, "E2": emobility.StatusReserved},
		ChangedStatus: map[emobility.EVSEID]emobility.EVSEStatus{},
		RemovedIDs:    map[emobility.EVSEID]struct{}{"E5": {}},
	}

	plan := Plan(diff, t0)

	require.Len(t, plan, 2)
	assert.Equal(t, emobility.ActionInsert, plan[0].Action)
	assert.Equal(t, []emobility.StatusRecord{
		{ID: "E2", Status: emobility.StatusReserved, Timestamp: t0},
		{ID: "E9", Status: emobility.StatusAvailable, Timestamp: t0},
	}, plan[0].Records)

	assert.Equal(t, emobility.ActionDelete, plan[1].Action)
	assert.Equal(t, []emobility.StatusRecord{
		{ID: "E5", Status: emobility.StatusOutOfService, Timestamp: t0},
	}, plan[1].Records)
}

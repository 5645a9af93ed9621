package stats

import (
	"sync"
	"testing"

	"habit-quest-api/internal/events"
	"habit-quest-api/internal/testutil"

	"github.com/stretchr/testify/require"
)

func TestIncrementExpCreatesRowLazily(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	ledger := NewLedger(events.NewBus())

	change, err := ledger.IncrementExp(db, "u-1", 2.5)
	require.NoError(t, err)
	require.Equal(t, events.StatExp, change.StatKind)
	require.Equal(t, 0.0, change.OldValue)
	require.Equal(t, 2.5, change.NewValue)

	row, err := ledger.Get(db, "u-1")
	require.NoError(t, err)
	require.Equal(t, 2.5, row.Experience)
	require.Equal(t, 0.0, row.Coins)
}

func TestDecrementCoinsFloorsAtZero(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	ledger := NewLedger(events.NewBus())

	_, err = ledger.IncrementCoins(db, "u-1", 3)
	require.NoError(t, err)

	change, err := ledger.DecrementCoinsFloorZero(db, "u-1", 10)
	require.NoError(t, err)
	require.Equal(t, 3.0, change.OldValue)
	require.Equal(t, 0.0, change.NewValue)

	row, err := ledger.Get(db, "u-1")
	require.NoError(t, err)
	require.Equal(t, 0.0, row.Coins)
}

func TestGetUnknownUserReturnsZeroRow(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	ledger := NewLedger(events.NewBus())

	row, err := ledger.Get(db, "nobody")
	require.NoError(t, err)
	require.Equal(t, "nobody", row.UserID)
	require.Equal(t, 0.0, row.Experience)
	require.Equal(t, 0.0, row.Coins)
}

func TestEmitPublishesOnBus(t *testing.T) {
	bus := events.NewBus()
	var got []events.StatChange
	bus.Subscribe(func(c events.StatChange) { got = append(got, c) })

	ledger := NewLedger(bus)
	ledger.Emit(
		events.StatChange{StatKind: events.StatExp, UserID: "u-1", NewValue: 2},
		events.StatChange{StatKind: events.StatCoins, UserID: "u-1", NewValue: 1},
	)
	require.Len(t, got, 2)
}

func TestConcurrentIncrementsNoLostUpdates(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	ledger := NewLedger(events.NewBus())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.IncrementCoins(db, "u-1", 5)
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	row, err := ledger.Get(db, "u-1")
	require.NoError(t, err)
	require.Equal(t, 50.0, row.Coins)
}

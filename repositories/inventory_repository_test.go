package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"rack-wms/models"
	"rack-wms/testutil"
	"rack-wms/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ptr(s string) *string { return &s }

func TestUpsertBalanceCreatesThenOverwrites(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewInventoryRepository(db, zap.NewNop())
	ctx := context.Background()
	product := testutil.Product(t, db, "SKU002")
	dock := testutil.Location(t, db, "R-0-0")

	in := UpsertInput{
		ProductID:      product.ID,
		LocationID:     dock.ID,
		SerialNumber:   ptr("LP-100"),
		Quantity:       8,
		Classification: "fragile",
		TxnType:        models.TxnReceive,
		Actor:          "bob",
	}
	created, err := repo.UpsertBalance(ctx, in)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, 8, created.OnHandQty)
	assert.Zero(t, created.AllocatedQty)
	assert.Equal(t, models.ClassFragile, created.Classification)
	assert.Equal(t, models.StatusReceived, created.StorageStatus())
	require.NotNil(t, created.Product)
	assert.Equal(t, "Widget B", created.Product.Name)

	expiry := time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC)
	in.Quantity = 5
	in.Classification = ""
	in.TxnType = ""
	in.ExpiryDate = &expiry
	updated, err := repo.UpsertBalance(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 5, updated.OnHandQty)
	assert.Equal(t, models.ClassFragile, updated.Classification, "empty classification keeps the existing one")
	require.NotNil(t, updated.ExpiryDate)
	assert.True(t, expiry.Equal(*updated.ExpiryDate))

	txns := testutil.Transactions(t, db, "LP-100")
	require.Len(t, txns, 2)
	assert.Equal(t, models.TxnReceive, txns[0].TxnType)
	assert.Equal(t, 8, txns[0].Qty)
	assert.Equal(t, models.TxnAdjust, txns[1].TxnType)
	assert.Equal(t, 5, txns[1].Qty)
	assert.Equal(t, models.RefManual, txns[1].ReferenceType)
}

func TestUpsertBalanceDistinguishesNullLot(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewInventoryRepository(db, zap.NewNop())
	ctx := context.Background()
	product := testutil.Product(t, db, "SKU003")
	dock := testutil.Location(t, db, "R-0-0")

	a, err := repo.UpsertBalance(ctx, UpsertInput{ProductID: product.ID, LocationID: dock.ID, SerialNumber: ptr("LP-1"), Quantity: 1})
	require.NoError(t, err)
	b, err := repo.UpsertBalance(ctx, UpsertInput{ProductID: product.ID, LocationID: dock.ID, LotNumber: ptr("LOT-7"), SerialNumber: ptr("LP-1"), Quantity: 2})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	again, err := repo.UpsertBalance(ctx, UpsertInput{ProductID: product.ID, LocationID: dock.ID, SerialNumber: ptr("LP-1"), Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, a.ID, again.ID)
}

func TestUpsertBalanceFollowsRackLoad(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewInventoryRepository(db, zap.NewNop())
	ctx := context.Background()
	testutil.SetRack(t, db, "A-1-2", models.ClassFragile, 10, 6)

	b := testutil.Receive(t, db, "LP-200", models.ClassFragile, 6)
	require.NoError(t, db.Model(&b).Update("rack_code", "A-1-2").Error)

	in := UpsertInput{ProductID: b.ProductID, LocationID: b.LocationID, SerialNumber: ptr("LP-200"), Quantity: 9}
	_, err := repo.UpsertBalance(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 9, testutil.Rack(t, db, "A-1-2").CurrentLoad)

	in.Quantity = 12
	_, err = repo.UpsertBalance(ctx, in)
	assert.Equal(t, types.KindCapacityExceeded, types.KindOf(err))
	assert.Equal(t, 9, testutil.Rack(t, db, "A-1-2").CurrentLoad)
	assert.Equal(t, 9, testutil.Balance(t, db, "LP-200").OnHandQty)

	in.Quantity = 2
	_, err = repo.UpsertBalance(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 2, testutil.Rack(t, db, "A-1-2").CurrentLoad)
}

func TestFindBySerialReturnsNewest(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewInventoryRepository(db, zap.NewNop())

	testutil.Receive(t, db, "LP-300", models.ClassNormal, 1)
	newer := testutil.Receive(t, db, "LP-300", models.ClassToxic, 2)

	found, err := repo.FindBySerial(context.Background(), "LP-300")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, found.ID)
	require.NotNil(t, found.Location)
	assert.Equal(t, "R-0-0", found.Location.Code)

	_, err = repo.FindBySerial(context.Background(), "nope")
	assert.Equal(t, types.KindNotFound, types.KindOf(err))
	_, err = repo.FindBySerial(context.Background(), " ")
	assert.Equal(t, types.KindValidation, types.KindOf(err))
}

func TestListsAndQueues(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewInventoryRepository(db, zap.NewNop())
	ctx := context.Background()

	testutil.Receive(t, db, "LP-1", models.ClassNormal, 5)
	stored := testutil.Receive(t, db, "LP-2", models.ClassNormal, 50)
	require.NoError(t, db.Model(&stored).Update("rack_code", "A-1-1").Error)
	testutil.Receive(t, db, "LP-3", models.ClassNormal, 0)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	queue, err := repo.PutawayQueue(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, "LP-1", *queue[0].SerialNumber)

	low, err := repo.LowStock(ctx, 10)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "LP-1", *low[0].SerialNumber)

	dock := testutil.Location(t, db, "R-0-0")
	atDock, err := repo.ListByLocation(ctx, dock.ID)
	require.NoError(t, err)
	assert.Len(t, atDock, 3)
}

func TestDeleteBalanceReleasesRackAndLogs(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewInventoryRepository(db, zap.NewNop())
	ctx := context.Background()
	testutil.SetRack(t, db, "B-1-1", models.ClassToxic, 150, 4)

	b := testutil.Receive(t, db, "LP-400", models.ClassToxic, 7)
	require.NoError(t, db.Model(&b).Update("rack_code", "B-1-1").Error)

	result, err := repo.DeleteBalance(ctx, b.ID, "")
	require.NoError(t, err)
	assert.True(t, result.RackRelease.Applied)
	assert.True(t, result.AuditLog.Applied)
	assert.Equal(t, 0, testutil.Rack(t, db, "B-1-1").CurrentLoad, "release is clamped to the rack load")

	txns := testutil.Transactions(t, db, "LP-400")
	require.Len(t, txns, 1)
	assert.Equal(t, models.TxnDelete, txns[0].TxnType)
	assert.Equal(t, 7, txns[0].Qty)
	assert.Equal(t, models.RefInventoryID, txns[0].ReferenceType)
	assert.Equal(t, b.ID.String(), *txns[0].ReferenceID)
	assert.Equal(t, "admin", txns[0].CreatedBy)

	_, err = repo.DeleteBalance(ctx, b.ID, "")
	assert.Equal(t, types.KindNotFound, types.KindOf(err))
}

func TestDeleteBalanceWithMissingRackStillSucceeds(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewInventoryRepository(db, zap.NewNop())

	b := testutil.Receive(t, db, "LP-500", models.ClassToxic, 3)
	require.NoError(t, db.Model(&b).Update("rack_code", "GONE-1").Error)

	result, err := repo.DeleteBalance(context.Background(), b.ID, "carol")
	require.NoError(t, err)
	assert.False(t, result.RackRelease.Applied)
	assert.NotEmpty(t, result.RackRelease.Error)
	assert.True(t, result.AuditLog.Applied)
}

func TestDispatchHistoryNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewInventoryRepository(db, zap.NewNop())
	b := testutil.Receive(t, db, "LP-600", models.ClassNormal, 10)

	for i := 1; i <= 3; i++ {
		require.NoError(t, AppendTransaction(db, &models.InventoryTransaction{
			ProductID:    b.ProductID,
			LocationID:   b.LocationID,
			SerialNumber: b.SerialNumber,
			TxnType:      models.TxnOutboundDispatch,
			Qty:          i,
		}))
	}
	require.NoError(t, AppendTransaction(db, &models.InventoryTransaction{
		ProductID: b.ProductID, LocationID: b.LocationID, TxnType: models.TxnAdjust, Qty: 99,
	}))

	history, err := repo.DispatchHistory(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 3, history[0].Qty)
	assert.Equal(t, 2, history[1].Qty)
}

func TestUpsertBalanceConcurrentFirstReceivesShareOneRow(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewInventoryRepository(db, zap.NewNop())
	product := testutil.Product(t, db, "SKU002")
	dock := testutil.Location(t, db, "R-0-0")

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.UpsertBalance(context.Background(), UpsertInput{
				ProductID:    product.ID,
				LocationID:   dock.ID,
				SerialNumber: ptr("LP-700"),
				Quantity:     i + 1,
				Actor:        "dock",
			})
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	var rows int64
	require.NoError(t, db.Model(&models.InventoryBalance{}).Where("serial_number = ?", "LP-700").Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
	assert.Len(t, testutil.Transactions(t, db, "LP-700"), 4)
}

func TestUpsertBalanceUnknownProduct(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewInventoryRepository(db, zap.NewNop())

	_, err := repo.UpsertBalance(context.Background(), UpsertInput{
		ProductID:    9999,
		LocationID:   testutil.Location(t, db, "R-0-0").ID,
		SerialNumber: ptr("LP-701"),
		Quantity:     1,
	})
	assert.Equal(t, types.KindNotFound, types.KindOf(err))
	assert.Empty(t, testutil.Transactions(t, db, "LP-701"))
}

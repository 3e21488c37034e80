package services

import (
	"bytes"
	"context"
	"testing"

	"rack-wms/models"
	"rack-wms/testutil"
	"rack-wms/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func rackSheet(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestRackServiceCreateAndList(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRackService(db, zap.NewNop())
	ctx := context.Background()

	rack, err := svc.Create(ctx, "D-2-1", "toxic", 40, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.ClassToxic, rack.ZoneType)
	assert.Equal(t, "admin", rack.CreatedBy)

	_, err = svc.Create(ctx, "D-2-1", "TOXIC", 40, "admin")
	assert.Equal(t, types.KindValidation, types.KindOf(err))

	racks, err := svc.List(ctx)
	require.NoError(t, err)
	codes := make([]string, 0, len(racks))
	for _, r := range racks {
		codes = append(codes, r.RackCode)
	}
	assert.Equal(t, []string{"A-1-1", "A-1-2", "B-1-1", "C-1-1", "D-2-1"}, codes)
}

func TestRackServiceImport(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRackService(db, zap.NewNop())

	summary, err := svc.Import(context.Background(), rackSheet(t, [][]interface{}{
		{"Rack Code", "Zone Type", "Capacity"},
		{"A-1-1", "FRAGILE", 60},
		{"E-1-1", "INFLAMMABLE", 25},
	}), "")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Updated)

	a11 := testutil.Rack(t, db, "A-1-1")
	assert.Equal(t, models.ClassFragile, a11.ZoneType)
	assert.Equal(t, 60, a11.Capacity)
	assert.Equal(t, "system", a11.UpdatedBy)
	assert.Equal(t, 25, testutil.Rack(t, db, "E-1-1").Capacity)
}

func TestRackServiceImportRejectsBadRows(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRackService(db, zap.NewNop())

	_, err := svc.Import(context.Background(), rackSheet(t, [][]interface{}{
		{"Rack Code", "Zone Type", "Capacity"},
		{"E-1-1", "NORMAL", 25},
		{"E-1-2", "NORMAL", "many"},
	}), "")
	require.Error(t, err)
	assert.Equal(t, types.KindValidation, types.KindOf(err))
	assert.Contains(t, detail(err), "row 3")

	var count int64
	require.NoError(t, db.Model(&models.Rack{}).Where("rack_code = ?", "E-1-1").Count(&count).Error)
	assert.Zero(t, count)

	_, err = svc.Import(context.Background(), bytes.NewReader([]byte("not a workbook")), "")
	assert.Equal(t, types.KindValidation, types.KindOf(err))
}

func TestRackServiceImportBelowLoad(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRackService(db, zap.NewNop())
	testutil.SetRack(t, db, "A-1-1", models.ClassNormal, 100, 50)

	_, err := svc.Import(context.Background(), rackSheet(t, [][]interface{}{
		{"Rack Code", "Zone Type", "Capacity"},
		{"A-1-1", "NORMAL", 20},
	}), "")
	assert.Equal(t, types.KindValidation, types.KindOf(err))
	assert.Equal(t, 100, testutil.Rack(t, db, "A-1-1").Capacity)
}

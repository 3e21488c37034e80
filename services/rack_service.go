package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"rack-wms/models"
	"rack-wms/reports"
	"rack-wms/repositories"
	"rack-wms/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RackService struct {
	racks *repositories.RackRepository
	log   *zap.Logger
}

func NewRackService(db *gorm.DB, log *zap.Logger) *RackService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RackService{racks: repositories.NewRackRepository(db), log: log}
}

func (s *RackService) fail(op string, err error) error {
	appErr := types.AsAppError(err)
	if appErr.Kind == types.KindStoreFailure {
		s.log.Error("rack store failure", zap.String("op", op), zap.Error(err))
	}
	return appErr
}

func (s *RackService) List(ctx context.Context) ([]models.Rack, error) {
	racks, err := s.racks.List(ctx)
	if err != nil {
		return nil, s.fail("list", err)
	}
	return racks, nil
}

func (s *RackService) Create(ctx context.Context, code, zoneType string, capacity int, actor string) (*models.Rack, error) {
	rack, err := s.racks.CreateRack(ctx, code, zoneType, capacity, actorOr(actor, "system"))
	if err != nil {
		return nil, s.fail("create", err)
	}
	s.log.Info("rack created",
		zap.String("rack_code", rack.RackCode),
		zap.String("zone_type", rack.ZoneType.String()),
		zap.Int("capacity", rack.Capacity))
	return rack, nil
}

// Import applies a rack workbook. Any bad row rejects the whole file.
func (s *RackService) Import(ctx context.Context, r io.Reader, actor string) (*repositories.ImportSummary, error) {
	inputs, rowErrs, err := reports.ReadRackSheet(r)
	if err != nil {
		return nil, types.ValidationError("%s", err.Error())
	}
	if len(rowErrs) > 0 {
		msgs := make([]string, 0, len(rowErrs))
		for _, e := range rowErrs {
			msgs = append(msgs, fmt.Sprintf("row %d: %s", e.Row, e.Message))
		}
		return nil, types.ValidationError("%s", strings.Join(msgs, "; "))
	}
	if len(inputs) == 0 {
		return nil, types.ValidationError("no racks found in workbook")
	}

	summary, err := s.racks.ImportRacks(ctx, inputs, actorOr(actor, "system"))
	if err != nil {
		return nil, s.fail("import", err)
	}
	s.log.Info("racks imported", zap.Int("created", summary.Created), zap.Int("updated", summary.Updated))
	return summary, nil
}

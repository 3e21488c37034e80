package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"rack-wms/models"
	"rack-wms/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func TestLowStockAlerterSendsDigest(t *testing.T) {
	svc, db := newInventoryService(t)
	testutil.Receive(t, db, "LP-1", models.ClassNormal, 3)
	testutil.Receive(t, db, "LP-2", models.ClassNormal, 40)

	sender := &fakeSender{}
	alerter := NewLowStockAlerter(svc, sender, "wms@example.com", []string{"ops@example.com"}, zap.NewNop())
	alerter.now = func() time.Time { return time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC) }

	n, err := alerter.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, []string{"Low stock digest 2026-03-02: 1 items"}, msg.GetHeader("Subject"))
	assert.Equal(t, []string{"ops@example.com"}, msg.GetHeader("To"))
}

func TestLowStockAlerterSkipsWhenNothingIsLow(t *testing.T) {
	svc, db := newInventoryService(t)
	testutil.Receive(t, db, "LP-2", models.ClassNormal, 40)

	sender := &fakeSender{}
	n, err := NewLowStockAlerter(svc, sender, "wms@example.com", []string{"ops@example.com"}, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, sender.sent)
}

func TestLowStockAlerterSendFailure(t *testing.T) {
	svc, db := newInventoryService(t)
	testutil.Receive(t, db, "LP-1", models.ClassNormal, 1)

	sender := &fakeSender{err: errors.New("connection refused")}
	_, err := NewLowStockAlerter(svc, sender, "wms@example.com", []string{"ops@example.com"}, nil).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestDigestBodyEscapes(t *testing.T) {
	serial := "LP-<1>"
	body := digestBody([]models.InventoryView{{
		InventoryBalance: models.InventoryBalance{SerialNumber: &serial, Product: &models.Product{Name: "A & B"}},
		Quantity:         2,
	}}, 10)
	assert.Contains(t, body, "LP-&lt;1&gt;")
	assert.Contains(t, body, "A &amp; B")
	assert.Contains(t, body, "below 10 available units")
}

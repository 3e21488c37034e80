package services

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"rack-wms/config"
	"rack-wms/models"
	"rack-wms/reports"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// MailSender is satisfied by *gomail.Dialer.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// LowStockAlerter mails the list of low stock balances with the same data
// attached as a workbook.
type LowStockAlerter struct {
	inventory *InventoryService
	sender    MailSender
	from      string
	to        []string
	log       *zap.Logger
	now       func() time.Time
}

func NewLowStockAlerter(inventory *InventoryService, sender MailSender, from string, to []string, log *zap.Logger) *LowStockAlerter {
	if log == nil {
		log = zap.NewNop()
	}
	return &LowStockAlerter{inventory: inventory, sender: sender, from: from, to: to, log: log, now: time.Now}
}

// NewSMTPSender builds the dialer from the SMTP settings.
func NewSMTPSender() *gomail.Dialer {
	return gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword)
}

// Run sends one digest and returns how many balances it listed. Nothing is
// sent when no balance is low.
func (a *LowStockAlerter) Run(ctx context.Context) (int, error) {
	items, err := a.inventory.LowStock(ctx)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		a.log.Info("low stock digest skipped, nothing is low")
		return 0, nil
	}

	wb, err := reports.BalancesWorkbook(items)
	if err != nil {
		return 0, fmt.Errorf("build low stock workbook: %w", err)
	}
	attachment, err := reports.Bytes(wb)
	if err != nil {
		return 0, fmt.Errorf("write low stock workbook: %w", err)
	}

	stamp := a.now().Format("2006-01-02")
	msg := gomail.NewMessage()
	msg.SetHeader("From", a.from)
	msg.SetHeader("To", a.to...)
	msg.SetHeader("Subject", fmt.Sprintf("Low stock digest %s: %d items", stamp, len(items)))
	msg.SetBody("text/html", digestBody(items, a.inventory.Options().LowStockThreshold))
	msg.Attach("low-stock-"+stamp+".xlsx",
		gomail.SetHeader(map[string][]string{"Content-Type": {reports.ContentType}}),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := io.Copy(w, bytes.NewReader(attachment))
			return err
		}))

	if err := a.sender.DialAndSend(msg); err != nil {
		return 0, fmt.Errorf("send low stock digest: %w", err)
	}
	a.log.Info("low stock digest sent", zap.Int("items", len(items)), zap.Strings("to", a.to))
	return len(items), nil
}

func digestBody(items []models.InventoryView, threshold int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<html><body><h3>%d balances below %d available units</h3>", len(items), threshold)
	b.WriteString("<table border=\"1\" cellpadding=\"4\"><tr><th>License Plate</th><th>Product</th><th>Location</th><th>Available</th></tr>")
	for _, item := range items {
		var product, location, serial string
		if item.Product != nil {
			product = item.Product.Name
		}
		if item.Location != nil {
			location = item.Location.Code
		}
		if item.SerialNumber != nil {
			serial = *item.SerialNumber
		}
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%d</td></tr>",
			html.EscapeString(serial), html.EscapeString(product), html.EscapeString(location), item.Quantity)
	}
	b.WriteString("</table><p>This is an auto-generated email. Please do not reply.</p></body></html>")
	return b.String()
}

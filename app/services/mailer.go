package services

import (
	"context"
	"fmt"
	"html"
	"net/smtp"
	"sort"
	"strings"

	"github.com/bbmart/marketplace/app/models"
	"github.com/bbmart/marketplace/app/utils/format"
	"go.uber.org/zap"
)

// Notifier sends customer notifications. Delivery failures never fail the
// operation that triggered them.
type Notifier interface {
	OrderPlaced(ctx context.Context, order *models.Order) error
}

type MailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Currency string
}

type Mailer struct {
	config MailConfig
	logger *zap.Logger
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(cfg MailConfig, logger *zap.Logger) *Mailer {
	return &Mailer{
		config: cfg,
		logger: logger.Named("mailer"),
		send:   smtp.SendMail,
	}
}

func (m *Mailer) Enabled() bool {
	return m.config.Host != "" && m.config.From != ""
}

func (m *Mailer) SendHTMLEmail(to, subject, htmlBody string) error {
	headers := [][2]string{
		{"From", m.config.From},
		{"To", to},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=\"UTF-8\""},
	}

	var msg strings.Builder
	for _, h := range headers {
		fmt.Fprintf(&msg, "%s: %s\r\n", h[0], h[1])
	}
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}
	addr := fmt.Sprintf("%s:%s", m.config.Host, m.config.Port)

	if err := m.send(addr, auth, m.config.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}

func (m *Mailer) OrderPlaced(ctx context.Context, order *models.Order) error {
	if !m.Enabled() || order.ShippingAddress.Email == "" {
		return nil
	}
	subject := fmt.Sprintf("Order %s received", order.OrderCode)
	return m.SendHTMLEmail(order.ShippingAddress.Email, subject, BuildOrderPlacedEmailBody(order, m.config.Currency))
}

func BuildOrderPlacedEmailBody(order *models.Order, currency string) string {
	var rows strings.Builder
	items := append([]models.OrderItem(nil), order.Items...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	for _, item := range items {
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%d</td><td>%s</td></tr>",
			html.EscapeString(item.Name), item.Quantity, format.Money(item.LineTotal(), currency))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Thank you for your order, %s</h2>
  <p>Your order <strong>%s</strong> has been placed and is awaiting confirmation.</p>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><th align="left">Item</th><th>Qty</th><th align="right">Total</th></tr>
    %s
  </table>
  <p>Items: %s<br>Shipping: %s<br>Tax: %s<br><strong>Total: %s</strong></p>
  <p>Payment method: %s</p>
</body>
</html>`,
		html.EscapeString(order.ShippingAddress.Name),
		order.OrderCode,
		rows.String(),
		format.Money(order.Summary.ItemsTotal, currency),
		format.Money(order.Summary.ShippingCharge, currency),
		format.Money(order.Summary.Tax, currency),
		format.Money(order.Summary.TotalAmount, currency),
		strings.ToUpper(string(order.Payment.Method)),
	)
}

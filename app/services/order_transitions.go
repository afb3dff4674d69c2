package services

import (
	"context"
	"fmt"
	"time"

	"github.com/bbmart/marketplace/app/models"
	"github.com/bbmart/marketplace/app/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// transitions writes status changes together with their history entry and
// mirrors them to the audit trail.
type transitions struct {
	orders repositories.OrderRepository
	audit  repositories.AuditRepository
	logger *zap.Logger
	now    func() time.Time
}

func newTransitions(orders repositories.OrderRepository, audit repositories.AuditRepository, logger *zap.Logger) *transitions {
	if audit == nil {
		audit = repositories.NoopAuditRepository{}
	}
	return &transitions{orders: orders, audit: audit, logger: logger, now: time.Now}
}

// record must run inside the caller's transaction.
func (t *transitions) record(ctx context.Context, order *models.Order, status models.OrderStatus, comment string, actor models.Identity) error {
	if err := t.orders.UpdateStatus(ctx, order.ID, status); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	entry := &models.OrderStatusHistory{
		OrderID:   order.ID,
		Status:    status,
		Comment:   comment,
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		CreatedAt: t.now(),
	}
	if err := t.orders.AppendHistory(ctx, entry); err != nil {
		return fmt.Errorf("failed to append status history: %w", err)
	}

	order.Status = status
	order.StatusHistory = append(order.StatusHistory, *entry)
	return nil
}

// trail is best-effort; the relational history stays authoritative.
func (t *transitions) trail(ctx context.Context, order *models.Order, action, comment string, actor models.Identity, data bson.M) {
	entry := &repositories.AuditEntry{
		OrderID:   order.ID,
		OrderCode: order.OrderCode,
		Action:    action,
		Status:    string(order.Status),
		ActorID:   actor.UserID,
		ActorRole: string(actor.Role),
		Comment:   comment,
		Data:      data,
		CreatedAt: t.now(),
	}
	if err := t.audit.Record(ctx, entry); err != nil {
		t.logger.Warn("audit write failed",
			zap.String("order_code", order.OrderCode),
			zap.String("action", action),
			zap.Error(err))
	}
}

var systemActor = models.Identity{UserID: "system", Role: models.RoleSystem}

package notifications

import (
	"context"

	"github.com/supplybot/supplybot-backend/pkg/db/models"
	"github.com/supplybot/supplybot-backend/pkg/logger"
)

// Notifier is told about dispatched orders after the conversion transaction
// commits. Implementations must tolerate being called at most once per order.
type Notifier interface {
	OrderSent(ctx context.Context, order *models.Order)
}

// LogNotifier reports dispatched orders to the structured log. It stands in
// for a real supplier-facing channel (messenger, email) in environments that
// have none configured.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(logg *logger.Logger) *LogNotifier {
	return &LogNotifier{log: logg}
}

func (n *LogNotifier) OrderSent(ctx context.Context, order *models.Order) {
	if n.log == nil || order == nil {
		return
	}
	ctx = n.log.WithFields(ctx, map[string]any{
		"order_id":      order.ID.String(),
		"restaurant_id": order.RestaurantID.String(),
		"items":         len(order.Items),
	})
	n.log.Info(ctx, "order dispatched to supplier")
}

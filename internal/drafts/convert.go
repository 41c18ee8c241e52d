package drafts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/supplybot/supplybot-backend/pkg/db"
	"github.com/supplybot/supplybot-backend/pkg/db/models"
	"github.com/supplybot/supplybot-backend/pkg/enums"
	pkgerrors "github.com/supplybot/supplybot-backend/pkg/errors"
	"github.com/supplybot/supplybot-backend/pkg/retry"
)

// ConvertToOrder turns a draft into an immutable order: one transaction,
// row lock on the draft, snapshot of its matched/confirmed items, draft
// flipped to sent. Lock contention is retried with backoff; every other
// failure rolls back and propagates untouched.
func (s *service) ConvertToOrder(ctx context.Context, draftID uuid.UUID) (*models.Order, error) {
	started := time.Now()

	var order *models.Order
	err := retry.Do(ctx, s.retryPolicy, db.IsLockContention, func(ctx context.Context) error {
		s.metrics.IncAttempt()
		converted, err := s.convertOnce(ctx, draftID)
		if err != nil {
			if db.IsLockContention(err) {
				s.metrics.IncRetry()
			}
			return err
		}
		order = converted
		return nil
	})
	if err != nil {
		outcome := "error"
		if appErr := pkgerrors.As(err); appErr != nil {
			outcome = string(appErr.Code())
			s.metrics.IncFailure(string(appErr.Code()))
		} else if db.IsLockContention(err) {
			outcome = "lock_contention"
			s.metrics.IncFailure("lock_contention")
			err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "conversion kept losing the draft lock")
		} else {
			s.metrics.IncFailure("internal")
		}
		s.metrics.ObserveDuration(outcome, time.Since(started))
		return nil, err
	}

	s.metrics.ObserveDuration("sent", time.Since(started))
	if s.notifier != nil {
		s.notifier.OrderSent(ctx, order)
	}
	return order, nil
}

func (s *service) convertOnce(ctx context.Context, draftID uuid.UUID) (*models.Order, error) {
	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		draft, err := repo.FindDraftForUpdate(ctx, draftID)
		if err != nil {
			return notFoundOr(err, "draft not found")
		}
		if draft.Status != enums.DraftOrderStatusDraft {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "draft is already sent")
		}

		items, err := repo.ActiveItems(ctx, draft.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "nothing to send")
		}

		snapshot := models.Order{
			RestaurantID: draft.RestaurantID,
			BranchID:     draft.BranchID,
			DraftOrderID: draft.ID,
			ScheduledFor: draft.ScheduledFor,
			SentAt:       time.Now().UTC(),
		}
		for _, item := range items {
			snapshot.Items = append(snapshot.Items, models.OrderItem{
				ProductID: item.MatchedProductID,
				Name:      item.RequestedName,
				Quantity:  item.Quantity,
				Unit:      item.Unit,
			})
		}
		if _, err := repo.CreateOrder(ctx, &snapshot); err != nil {
			return err
		}
		if err := repo.UpdateDraftStatus(ctx, draft.ID, enums.DraftOrderStatusSent); err != nil {
			return err
		}

		order = &snapshot
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

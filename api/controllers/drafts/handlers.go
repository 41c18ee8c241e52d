package drafts

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/supplybot/supplybot-backend/api/middleware"
	"github.com/supplybot/supplybot-backend/api/responses"
	"github.com/supplybot/supplybot-backend/api/validators"
	draftsvc "github.com/supplybot/supplybot-backend/internal/drafts"
	pkgerrors "github.com/supplybot/supplybot-backend/pkg/errors"
	"github.com/supplybot/supplybot-backend/pkg/logger"
)

// AddLines feeds a multi-line message through the reconciliation pipeline.
func AddLines(svc draftsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draftID, err := urlUUID(r, "draftID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addLinesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bundle, err := svc.ParseAndAddProducts(r.Context(), draftID, payload.Text, middleware.ActorIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBundleView(bundle))
	}
}

// Send converts the draft into an immutable order.
func Send(svc draftsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draftID, err := urlUUID(r, "draftID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// ownership is enforced before the conversion lock is taken
		if _, err := svc.GetCurrentDraft(r.Context(), middleware.ActorIDFromContext(r.Context()), &draftID, nil); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.ConvertToOrder(r.Context(), draftID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderView(order))
	}
}

// Current loads a specific draft or the actor's open one.
func Current(svc draftsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var draftID, branchID *uuid.UUID
		if raw := r.URL.Query().Get("draft_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "draft_id must be a uuid"))
				return
			}
			draftID = &id
		}
		if raw := r.URL.Query().Get("branch_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "branch_id must be a uuid"))
				return
			}
			branchID = &id
		}

		draft, err := svc.GetCurrentDraft(r.Context(), middleware.ActorIDFromContext(r.Context()), draftID, branchID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newDraftView(draft))
	}
}

// Open finds or creates the actor's open draft.
func Open(svc draftsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload openDraftRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := svc.GetOrCreateDraftOrder(r.Context(), middleware.ActorIDFromContext(r.Context()), payload.BranchID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newDraftView(draft))
	}
}

// ConfirmItem rebinds an item to the chosen product.
func ConfirmItem(svc draftsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := urlUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload confirmItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.ConfirmProductMatch(r.Context(), itemID, payload.ProductID, middleware.ActorIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newItemView(*item))
	}
}

// UpdateItemQuantity edits a line's quantity.
func UpdateItemQuantity(svc draftsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := urlUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateItemQuantity(r.Context(), itemID, payload.Quantity, middleware.ActorIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// RemoveItem deletes a line from the draft.
func RemoveItem(svc draftsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := urlUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveItem(r.Context(), itemID, middleware.ActorIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

func urlUUID(r *http.Request, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, key))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, key+" must be a uuid")
	}
	return id, nil
}

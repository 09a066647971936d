package internal

import (
	"errors"
	"net/http"

	"supplier-inventory-api/internal/inventory"
	"supplier-inventory-api/internal/notify"
)

// notifySupplier emails the supplier of the product in the path.
func (s *Server) notifySupplier(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "product_id")
	if !ok {
		return
	}
	var req notify.Request
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.Metrics.ObserveNotification("invalid")
		s.writeError(w, r, err)
		return
	}

	err := s.Notifier.NotifySupplierForProduct(r.Context(), productID, *req.Subject, *req.Message)
	switch {
	case err == nil:
		s.Metrics.ObserveNotification("sent")
	case errors.Is(err, inventory.ErrNotFound):
		s.Metrics.ObserveNotification("not_found")
	case errors.Is(err, notify.ErrDelivery):
		s.Metrics.ObserveNotification("failed")
	default:
		s.Metrics.ObserveNotification("error")
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "email sent"})
}

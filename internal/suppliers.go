package internal

import (
	"net/http"

	"supplier-inventory-api/internal/models"
)

func (s *Server) listSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := s.Inventory.ListSuppliers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, suppliers)
}

func (s *Server) getSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	sp, err := s.Inventory.GetSupplier(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, sp)
}

func (s *Server) createSupplier(w http.ResponseWriter, r *http.Request) {
	var in models.SupplierInput
	if !decodeJSON(w, r, &in) {
		return
	}
	sp, err := s.Inventory.CreateSupplier(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, sp)
}

func (s *Server) updateSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in models.SupplierInput
	if !decodeJSON(w, r, &in) {
		return
	}
	sp, err := s.Inventory.UpdateSupplier(r.Context(), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, sp)
}

func (s *Server) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	found, err := s.Inventory.DeleteSupplier(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !found {
		writeNotFound(w, "Supplier")
		return
	}
	writeOK(w)
}

package internal

import (
	"net/http"

	"supplier-inventory-api/internal/models"
)

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.Inventory.ListProducts(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, products)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := s.Inventory.GetProduct(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, p)
}

// createProduct adds a product under the supplier named in the path.
func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	supplierID, ok := pathID(w, r, "supplier_id")
	if !ok {
		return
	}
	var in models.ProductInput
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := s.Inventory.CreateProduct(r.Context(), supplierID, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, p)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in models.ProductInput
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := s.Inventory.UpdateProduct(r.Context(), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, p)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	found, err := s.Inventory.DeleteProduct(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !found {
		writeNotFound(w, "Product")
		return
	}
	writeOK(w)
}

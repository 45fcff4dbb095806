package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/retrorack/storefront/internal/cart"
	"github.com/retrorack/storefront/internal/catalog"
	"github.com/retrorack/storefront/internal/domain"
)

type CartHandler struct {
	cart    *cart.Store
	catalog *catalog.Service
	timeout time.Duration
}

func NewCartHandler(cartStore *cart.Store, catalogService *catalog.Service, timeout time.Duration) *CartHandler {
	return &CartHandler{
		cart:    cartStore,
		catalog: catalogService,
		timeout: timeout,
	}
}

type AddCartItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

// CartViewDTO is the envelope plus its derived values, recomputed per read.
type CartViewDTO struct {
	Items       []domain.CartLine `json:"items"`
	ItemCount   int               `json:"item_count"`
	Subtotal    float64           `json:"subtotal"`
	LastUpdated time.Time         `json:"last_updated"`
}

func cartView(state domain.CartState) CartViewDTO {
	items := state.Items
	if items == nil {
		items = []domain.CartLine{}
	}
	return CartViewDTO{
		Items:       items,
		ItemCount:   state.ItemCount(),
		Subtotal:    state.Subtotal(),
		LastUpdated: state.LastUpdated,
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	if getUserIDFromContext(r.Context()) == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	respondJSON(w, http.StatusOK, cartView(h.cart.Snapshot()))
}

// AddItem resolves the product in the catalog, snapshots its display data
// into the line, and merges it into the cart.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if getUserIDFromContext(r.Context()) == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req AddCartItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	product, err := h.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		log.Printf("cart handler: catalog lookup failed: %v (request %s)", err, getRequestID(r.Context()))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	state := h.cart.Add(ctx, domain.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  req.Quantity,
		Image:     product.ImageURL,
	})

	respondJSON(w, http.StatusCreated, cartView(state))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if getUserIDFromContext(r.Context()) == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	lineID := chi.URLParam(r, "line_id")
	if lineID == "" {
		respondError(w, http.StatusBadRequest, "invalid_line_id", "line_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// quantity 0 removes the line
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 0 and 99")
		return
	}

	state := h.cart.UpdateQuantity(ctx, lineID, req.Quantity)
	respondJSON(w, http.StatusOK, cartView(state))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if getUserIDFromContext(r.Context()) == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	lineID := chi.URLParam(r, "line_id")
	if lineID == "" {
		respondError(w, http.StatusBadRequest, "invalid_line_id", "line_id is required")
		return
	}

	state := h.cart.Remove(ctx, lineID)
	respondJSON(w, http.StatusOK, cartView(state))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if getUserIDFromContext(r.Context()) == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	state := h.cart.Clear(ctx)
	respondJSON(w, http.StatusOK, cartView(state))
}

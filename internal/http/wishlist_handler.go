package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/retrorack/storefront/internal/catalog"
	"github.com/retrorack/storefront/internal/domain"
	"github.com/retrorack/storefront/internal/wishlist"
)

type WishlistHandler struct {
	wishlist *wishlist.Store
	catalog  *catalog.Service
	timeout  time.Duration
}

func NewWishlistHandler(wishlistStore *wishlist.Store, catalogService *catalog.Service, timeout time.Duration) *WishlistHandler {
	return &WishlistHandler{
		wishlist: wishlistStore,
		catalog:  catalogService,
		timeout:  timeout,
	}
}

type WishlistItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
}

type WishlistViewDTO struct {
	Items       []domain.WishlistItem `json:"items"`
	ItemCount   int                   `json:"item_count"`
	LastUpdated time.Time             `json:"last_updated"`
}

func wishlistView(state domain.WishlistState) WishlistViewDTO {
	items := state.Items
	if items == nil {
		items = []domain.WishlistItem{}
	}
	return WishlistViewDTO{
		Items:       items,
		ItemCount:   state.ItemCount(),
		LastUpdated: state.LastUpdated,
	}
}

func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	if getUserIDFromContext(r.Context()) == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	respondJSON(w, http.StatusOK, wishlistView(h.wishlist.Snapshot()))
}

func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.wishlist.Add, http.StatusCreated)
}

// ToggleItem removes the product when saved, adds it otherwise.
func (h *WishlistHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.wishlist.Toggle, http.StatusOK)
}

// mutate covers add and toggle; both need the same DTO, validation and
// catalog snapshot.
func (h *WishlistHandler) mutate(w http.ResponseWriter, r *http.Request,
	op func(context.Context, domain.WishlistItem) domain.WishlistState, successStatus int) {

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if getUserIDFromContext(r.Context()) == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req WishlistItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	product, err := h.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		log.Printf("wishlist handler: catalog lookup failed: %v (request %s)", err, getRequestID(r.Context()))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	state := op(ctx, domain.WishlistItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Image:     product.ImageURL,
	})

	respondJSON(w, successStatus, wishlistView(state))
}

func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if getUserIDFromContext(r.Context()) == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	productIDStr := chi.URLParam(r, "product_id")
	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	state := h.wishlist.Remove(ctx, productID)
	respondJSON(w, http.StatusOK, wishlistView(state))
}

func (h *WishlistHandler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if getUserIDFromContext(r.Context()) == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	state := h.wishlist.Clear(ctx)
	respondJSON(w, http.StatusOK, wishlistView(state))
}

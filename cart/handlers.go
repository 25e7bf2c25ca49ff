package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"voltshop/apperr"
	"voltshop/identity"
	"voltshop/inventory"
	"voltshop/models"
	"voltshop/pricing"
	"voltshop/products"
	"voltshop/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type addToCartInput struct {
	ProductID   string            `json:"productId"`
	VariationID string            `json:"variationId,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Quantity    int64             `json:"quantity"`
}

// AddToCart handles POST /api/cart.
func (s *Service) AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ident, err := identity.FromRequest(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	var input addToCartInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, apperr.BadRequest("Invalid JSON payload"))
		return
	}
	productID, err := primitive.ObjectIDFromHex(input.ProductID)
	if err != nil {
		utils.RespondWithError(w, apperr.BadRequest("Invalid product id"))
		return
	}
	var variationID *primitive.ObjectID
	if input.VariationID != "" {
		vid, err := primitive.ObjectIDFromHex(input.VariationID)
		if err != nil {
			utils.RespondWithError(w, apperr.BadRequest("Invalid variation id"))
			return
		}
		variationID = &vid
	}

	item, err := s.AddItem(ctx, ident, productID, variationID, input.Attributes, input.Quantity)
	if err != nil {
		log.Println("AddToCart error:", err)
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusCreated, item)
}

// UpdateItemQuantity handles PATCH /api/cart/:itemid.
func (s *Service) UpdateItemQuantity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ident, err := identity.FromRequest(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	itemID, err := primitive.ObjectIDFromHex(ps.ByName("itemid"))
	if err != nil {
		utils.RespondWithError(w, apperr.BadRequest("Invalid item id"))
		return
	}

	var input struct {
		Quantity int64 `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, apperr.BadRequest("Invalid JSON payload"))
		return
	}

	if err := s.UpdateQuantity(ctx, ident, itemID, input.Quantity); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, utils.M{"updated": true})
}

// DeleteItem handles DELETE /api/cart/:itemid.
func (s *Service) DeleteItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ident, err := identity.FromRequest(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	itemID, err := primitive.ObjectIDFromHex(ps.ByName("itemid"))
	if err != nil {
		utils.RespondWithError(w, apperr.BadRequest("Invalid item id"))
		return
	}

	if err := s.RemoveItem(ctx, ident, itemID); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, utils.M{"deleted": true})
}

// ResolveLine joins a cart item with the current catalog state. Prices
// come from the live product, never from the stored item; a line whose
// variation vanished is flagged instead of priced.
func ResolveLine(item models.CartItem, product models.Product, inv models.Inventory) models.ResolvedCartLine {
	line := models.ResolvedCartLine{
		Item:          item,
		Title:         product.Title,
		StockQuantity: inv.StockQuantity,
	}

	var variation *models.Variation
	if item.VariationID != nil {
		variation = product.Variation(*item.VariationID)
		if variation == nil {
			line.VariationUnavailable = true
			return line
		}
	}

	line.UnitPrice = pricing.EffectiveUnitPrice(product.Price, variation)
	line.LineTotal = pricing.LineTotal(line.UnitPrice, item.Quantity)
	return line
}

// GetCart handles GET /api/cart: read-only, resolving prices at read
// time so the storefront always sees current catalog state.
func (s *Service) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ident, err := identity.FromRequest(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	items, err := LoadItems(ctx, ident)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	lines := make([]models.ResolvedCartLine, 0, len(items))
	var subtotal float64
	for _, item := range items {
		product, err := products.GetActive(ctx, item.ProductID)
		if err != nil {
			// Product removed since it was added; skip the line.
			continue
		}
		inv, err := inventory.Get(ctx, item.ProductID, nil)
		if err != nil {
			continue
		}
		line := ResolveLine(item, product, inv)
		lines = append(lines, line)
		subtotal += line.LineTotal
	}

	utils.RespondWithData(w, http.StatusOK, utils.M{
		"items":    lines,
		"subtotal": subtotal,
	})
}

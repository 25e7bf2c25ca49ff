package products

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"voltshop/apperr"
	"voltshop/db"
	"voltshop/inventory"
	"voltshop/models"
	"voltshop/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetActive loads a product that exists and is not soft-deleted.
// Checkout and cart code must use this, never a raw find, so deleted
// products can never be ordered.
func GetActive(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var product models.Product
	err := db.ProductCollection.FindOne(ctx, bson.M{"_id": id, "isDeleted": false}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return product, apperr.NotFound("Product not found or unavailable")
		}
		return product, err
	}
	return product, nil
}

type createProductInput struct {
	Title         string             `json:"title"`
	Price         models.Price       `json:"price"`
	Variations    []models.Variation `json:"variations"`
	WarrantyDays  int                `json:"warrantyDays"`
	StockQuantity int64              `json:"stockQuantity"`
}

// CreateProduct inserts a product plus its inventory record in one
// transaction so a product can never exist without stock bookkeeping.
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input createProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, apperr.BadRequest("Invalid JSON payload"))
		return
	}
	if input.Title == "" || input.Price.Regular <= 0 {
		utils.RespondWithError(w, apperr.BadRequest("Title and a positive regular price are required"))
		return
	}

	now := time.Now()
	product := models.Product{
		ID:           primitive.NewObjectID(),
		Title:        input.Title,
		Slug:         slugify(input.Title),
		Price:        input.Price,
		Variations:   input.Variations,
		WarrantyDays: input.WarrantyDays,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for i := range product.Variations {
		if product.Variations[i].ID.IsZero() {
			product.Variations[i].ID = primitive.NewObjectID()
		}
	}

	err := db.WithTxn(ctx, func(sc mongo.SessionContext) error {
		if _, err := db.ProductCollection.InsertOne(sc, product); err != nil {
			return err
		}
		status := inventory.StatusInStock
		if input.StockQuantity <= 0 {
			status = inventory.StatusOutOfStock
		}
		inv := models.Inventory{
			ID:            primitive.NewObjectID(),
			ProductID:     product.ID,
			StockQuantity: input.StockQuantity,
			StockStatus:   status,
			UpdatedAt:     now,
		}
		_, err := db.InventoryCollection.InsertOne(sc, inv)
		return err
	})
	if err != nil {
		log.Println("CreateProduct txn error:", err)
		utils.RespondWithError(w, err)
		return
	}

	utils.RespondWithData(w, http.StatusCreated, product)
}

// GetProduct returns one product with its inventory joined in.
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(ps.ByName("productid"))
	if err != nil {
		utils.RespondWithError(w, apperr.BadRequest("Invalid product id"))
		return
	}

	product, err := GetActive(ctx, id)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	inv, err := inventory.Get(ctx, product.ID, nil)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	utils.RespondWithData(w, http.StatusOK, utils.M{
		"product":   product,
		"inventory": inv,
	})
}

// ListProducts returns non-deleted products, newest first.
func ListProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(100)
	cursor, err := db.ProductCollection.Find(ctx, bson.M{"isDeleted": false}, opts)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	defer cursor.Close(ctx)

	var items []models.Product
	if err := cursor.All(ctx, &items); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	if len(items) == 0 {
		items = []models.Product{}
	}
	utils.RespondWithData(w, http.StatusOK, items)
}

// DeleteProduct soft-deletes; existing orders keep their snapshots.
func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(ps.ByName("productid"))
	if err != nil {
		utils.RespondWithError(w, apperr.BadRequest("Invalid product id"))
		return
	}

	res, err := db.ProductCollection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"isDeleted": true, "updatedAt": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, apperr.NotFound("Product not found"))
		return
	}
	utils.RespondWithData(w, http.StatusOK, utils.M{"deleted": true})
}

func slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = strings.Join(strings.Fields(s), "-")
	return s + "-" + utils.GenerateRandomDigitString(4)
}

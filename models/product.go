package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Price holds the catalog pricing for a product. Sale price, when set,
// wins over the regular price; variations can override both.
type Price struct {
	Regular float64  `json:"regular" bson:"regular"`
	Sale    *float64 `json:"sale,omitempty" bson:"sale,omitempty"`
}

// Variation is a sellable variant of a product (e.g. color/size combo)
// with an optional price override and its own attribute set.
type Variation struct {
	ID         primitive.ObjectID `json:"id" bson:"_id"`
	Name       string             `json:"name" bson:"name"`
	Price      *float64           `json:"price,omitempty" bson:"price,omitempty"`
	Attributes map[string]string  `json:"attributes,omitempty" bson:"attributes,omitempty"`
}

type Product struct {
	ID         primitive.ObjectID `json:"id" bson:"_id"`
	Title      string             `json:"title" bson:"title"`
	Slug       string             `json:"slug" bson:"slug"`
	Price      Price              `json:"price" bson:"price"`
	Variations []Variation        `json:"variations,omitempty" bson:"variations,omitempty"`
	// Warranty duration granted per ordered unit, in days. Zero means
	// the product ships without warranty.
	WarrantyDays int       `json:"warrantyDays,omitempty" bson:"warrantyDays,omitempty"`
	IsDeleted    bool      `json:"isDeleted" bson:"isDeleted"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Variation returns the variation with the given id, or nil.
func (p *Product) Variation(id primitive.ObjectID) *Variation {
	for i := range p.Variations {
		if p.Variations[i].ID == id {
			return &p.Variations[i]
		}
	}
	return nil
}

// Inventory is the stock record for a product, or for one of its
// variations when variationId is set. Mutated only inside the same
// transaction as the order or cart operation that consumes or releases
// stock.
type Inventory struct {
	ID            primitive.ObjectID  `json:"id" bson:"_id"`
	ProductID     primitive.ObjectID  `json:"productId" bson:"productId"`
	VariationID   *primitive.ObjectID `json:"variationId,omitempty" bson:"variationId,omitempty"`
	StockQuantity int64               `json:"stockQuantity" bson:"stockQuantity"`
	StockStatus   string              `json:"stockStatus" bson:"stockStatus"` // "in_stock" | "out_of_stock"
	UpdatedAt     time.Time           `json:"updatedAt" bson:"updatedAt"`
}

package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/models"
)

// ProductRepo provides stock-aware access to the products collection.
type ProductRepo struct {
	db *mongo.Database
}

func NewProductRepo(db *mongo.Database) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) collection() *mongo.Collection {
	return r.db.Collection("products")
}

// FindForSale returns a product that is active and not soft-deleted.
func (r *ProductRepo) FindForSale(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var product models.Product
	err := r.collection().FindOne(ctx, bson.M{
		"_id":       id,
		"isActive":  bson.M{"$ne": false},
		"isDeleted": bson.M{"$ne": true},
	}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	return product, nil
}

// GetStock returns the current stock quantity for a product.
func (r *ProductRepo) GetStock(ctx context.Context, id primitive.ObjectID) (int, error) {
	product, err := r.FindForSale(ctx, id)
	if err != nil {
		return 0, err
	}
	return product.Stock, nil
}

// AdjustStock applies delta to a product's stock as a single atomic update.
// Decrements are guarded so the quantity can never go negative: the filter
// only matches when stock covers the decrement, making concurrent decrements
// on the same product serialize correctly inside mongo.
func (r *ProductRepo) AdjustStock(ctx context.Context, id primitive.ObjectID, delta int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"_id":       id,
		"isDeleted": bson.M{"$ne": true},
	}
	if delta < 0 {
		filter["stock"] = bson.M{"$gte": -delta}
	}
	update := bson.M{"$inc": bson.M{"stock": delta}}

	res, err := r.collection().UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if delta >= 0 {
			return ErrNotFound
		}
		available := 0
		if product, readErr := r.FindForSale(ctx, id); readErr == nil {
			available = product.Stock
		}
		return InsufficientStockError{
			ProductID: id,
			Available: available,
			Requested: -delta,
		}
	}
	return nil
}

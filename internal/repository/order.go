package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

// OrderRepo persists orders. Orders are never deleted; they only move between
// statuses, so every status write is a conditional update on the expected
// current status.
type OrderRepo struct {
	db *mongo.Database
}

func NewOrderRepo(db *mongo.Database) *OrderRepo {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) collection() *mongo.Collection {
	return r.db.Collection("orders")
}

func (r *OrderRepo) Create(ctx context.Context, order models.Order) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.collection().InsertOne(ctx, order)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

func (r *OrderRepo) FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var order models.Order
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// UpdateStatus moves an order from expected to next. The filter includes the
// expected current status so two concurrent transitions cannot both succeed;
// the loser gets ErrConflict. An optional tracking number is attached in the
// same write.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, expected, next, tracking string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{
		"status":    next,
		"updatedAt": time.Now(),
	}
	if tracking != "" {
		set["trackingNumber"] = tracking
	}

	res, err := r.collection().UpdateOne(ctx,
		bson.M{"_id": id, "status": expected},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}

// SetPaymentRef records the gateway reference, but only if none is set yet.
// A second initiate racing the first matches nothing and gets ErrConflict.
func (r *OrderRepo) SetPaymentRef(ctx context.Context, id primitive.ObjectID, ref string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.collection().UpdateOne(ctx,
		bson.M{
			"_id": id,
			"$or": bson.A{
				bson.M{"paymentRef": bson.M{"$exists": false}},
				bson.M{"paymentRef": ""},
			},
		},
		bson.M{"$set": bson.M{"paymentRef": ref, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.collection().Find(ctx,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAll returns a page of orders for the admin back office, newest first.
func (r *OrderRepo) ListAll(ctx context.Context, page, limit int64) ([]models.Order, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	total, err := r.collection().CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	cursor, err := r.collection().Find(ctx, bson.M{},
		options.Find().
			SetSkip((page-1)*limit).
			SetLimit(limit).
			SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// TopSellingProducts aggregates order items into units sold per product. This
// is the expensive query fronted by the popular-products cache.
func (r *OrderRepo) TopSellingProducts(ctx context.Context, limit int) ([]models.PopularProduct, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status": bson.M{"$nin": bson.A{models.OrderCancelled, models.OrderRefunded}},
		}}},
		{{Key: "$unwind", Value: "$items"}},
		{{Key: "$group", Value: bson.M{
			"_id":       "$items.productId",
			"name":      bson.M{"$last": "$items.name"},
			"unitsSold": bson.M{"$sum": "$items.quantity"},
			"revenue":   bson.M{"$sum": bson.M{"$multiply": bson.A{"$items.price", "$items.quantity"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "unitsSold", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := make([]models.PopularProduct, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

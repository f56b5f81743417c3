package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// PopularProduct is one row of the top-selling-products aggregation.
type PopularProduct struct {
	ProductID primitive.ObjectID `bson:"_id" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	UnitsSold int                `bson:"unitsSold" json:"unitsSold"`
	Revenue   float64            `bson:"revenue" json:"revenue"`
}

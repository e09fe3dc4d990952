package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Nutrition holds macro totals. Calories are whole numbers, the rest are rounded to 0.1.
type Nutrition struct {
	Calories int     `bson:"calories" json:"calories"`
	ProteinG float64 `bson:"proteinG" json:"proteinG"`
	CarbsG   float64 `bson:"carbsG" json:"carbsG"`
	FatG     float64 `bson:"fatG" json:"fatG"`
	FiberG   float64 `bson:"fiberG" json:"fiberG"`
	SugarG   float64 `bson:"sugarG,omitempty" json:"sugarG,omitempty"`
	SodiumMg float64 `bson:"sodiumMg,omitempty" json:"sodiumMg,omitempty"`
}

// Meal is a free-text food log entry, enriched with nutrition when the lookup succeeded.
type Meal struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string             `bson:"userId" json:"userId"`
	Description string             `bson:"description" json:"description"`
	LoggedAt    time.Time          `bson:"loggedAt" json:"loggedAt"`
	Nutrition   *Nutrition         `bson:"nutrition,omitempty" json:"nutrition,omitempty"`
	LookupItems []string           `bson:"lookupItems,omitempty" json:"lookupItems,omitempty"` // food names the lookup matched
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

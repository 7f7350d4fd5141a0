package models

import "time"

// Record is one encrypted vault entry. Data and IV are base64 strings the
// server stores as given and never interprets.
type Record struct {
	ID        string    `bson:"_id"`
	OwnerID   string    `bson:"userId"`
	Data      string    `bson:"data"`
	IV        string    `bson:"iv"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
)

type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	UID          string             `json:"uid" bson:"uid"` // stable public id
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	PhoneNumber  string             `json:"phoneNumber,omitempty" bson:"phoneNumber,omitempty"`
	PasswordHash string             `json:"-" bson:"passwordHash"`
	Role         Role               `json:"role" bson:"role"`
	IsDeleted    bool               `json:"isDeleted" bson:"isDeleted"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

// Address is a user's saved shipping address, upserted from the last
// checkout's shipping payload.
type Address struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	UserID      string             `json:"userId" bson:"userId"`
	FullName    string             `json:"fullName" bson:"fullName"`
	PhoneNumber string             `json:"phoneNumber" bson:"phoneNumber"`
	FullAddress string             `json:"fullAddress" bson:"fullAddress"`
	District    string             `json:"district,omitempty" bson:"district,omitempty"`
	SubDistrict string             `json:"subDistrict,omitempty" bson:"subDistrict,omitempty"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

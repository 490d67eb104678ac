// Package models - model bất động sản (Property).
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các loại bất động sản
const (
	PropertyTypeHouse      = "House"
	PropertyTypeApartment  = "Apartment"
	PropertyTypeCommercial = "Commercial"
	PropertyTypeLand       = "Land"
)

// Các trạng thái đăng bán
const (
	PropertyStatusActive = "Active"
	PropertyStatusSold   = "Sold"
	PropertyStatusDraft  = "Draft"
)

// PropertyImage một ảnh bất động sản đã upload lên Cloudinary.
// PublicID dùng để xóa ảnh khỏi Cloudinary khi cần.
type PropertyImage struct {
	URL      string `json:"url" bson:"url"`
	PublicID string `json:"publicId" bson:"publicId"`
}

// Property định nghĩa mô hình bất động sản
type Property struct {
	ID          primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Title       string              `json:"title" bson:"title"`
	Description string              `json:"description,omitempty" bson:"description,omitempty"`
	Address     string              `json:"address" bson:"address"`
	Price       float64             `json:"price" bson:"price" index:"single"`
	Beds        int                 `json:"beds" bson:"beds"`
	Baths       int                 `json:"baths" bson:"baths"`
	Sqft        int                 `json:"sqft" bson:"sqft"`
	Type        string              `json:"type" bson:"type" index:"single"`
	Status      string              `json:"status" bson:"status" index:"single"`
	Agent       *primitive.ObjectID `json:"agent,omitempty" bson:"agent,omitempty"`
	Featured    bool                `json:"featured" bson:"featured"`
	Images      []PropertyImage     `json:"images" bson:"images"`
	CreatedAt   int64               `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64               `json:"updatedAt" bson:"updatedAt"`
}

// IsValidPropertyType kiểm tra loại bất động sản hợp lệ
func IsValidPropertyType(t string) bool {
	switch t {
	case PropertyTypeHouse, PropertyTypeApartment, PropertyTypeCommercial, PropertyTypeLand:
		return true
	}
	return false
}

// IsValidPropertyStatus kiểm tra trạng thái đăng bán hợp lệ
func IsValidPropertyStatus(s string) bool {
	switch s {
	case PropertyStatusActive, PropertyStatusSold, PropertyStatusDraft:
		return true
	}
	return false
}

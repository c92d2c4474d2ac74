package models

import (
	"time"
)

type User struct {
	ID           string  `gorm:"primaryKey;size:36"   json:"id"`
	Username     string  `gorm:"uniqueIndex;not null" json:"username"`
	Name         string  `gorm:"not null"             json:"name"`
	PasswordHash string  `gorm:"not null"             json:"-"`
	RefreshToken *string `json:"-"`
}

type Admin struct {
	ID           string  `gorm:"primaryKey;size:36"   json:"id"`
	Username     string  `gorm:"uniqueIndex;not null" json:"username"`
	Name         string  `gorm:"not null"             json:"name"`
	PasswordHash string  `gorm:"not null"             json:"-"`
	RefreshToken *string `json:"-"`
}

type Product struct {
	ID          string         `gorm:"primaryKey;size:36"   json:"id"`
	Name        string         `gorm:"not null"             json:"name"`
	Description string         `gorm:"not null"             json:"description"`
	Price       float64        `gorm:"not null"             json:"price"`
	Category    *string        `json:"category"`
	Stock       int            `gorm:"not null"             json:"stock"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	Images      []ProductImage `gorm:"foreignKey:ProductID" json:"images"`
}

type ProductImage struct {
	ID        string `gorm:"primaryKey;size:36"     json:"id"`
	ProductID string `gorm:"index;not null;size:36" json:"productId"`
	URL       string `gorm:"not null"               json:"url"`
	AltText   string `json:"altText"`
	IsPrimary bool   `gorm:"default:false"          json:"isPrimary"`
}

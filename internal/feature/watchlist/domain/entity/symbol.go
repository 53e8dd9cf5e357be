// Package entity defines the domain models for the watchlist feature.
package entity

import "time"

// Symbol is one ticker of the watchlist. Active symbols are listed by the API
// and pre-analyzed by the warm job in SortKey order.
type Symbol struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:20;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null"`
	Exchange  string    `gorm:"size:100;not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName keeps the table name stable across gorm naming strategies.
func (Symbol) TableName() string { return "watchlist_symbols" }

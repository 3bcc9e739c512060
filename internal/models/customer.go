package models

import "time"

// Customer is the recipient of a review request. The tracking server only
// ever reads customers; they are created and maintained elsewhere.
type Customer struct {
	ID        uint      `gorm:"primaryKey"`
	FirstName string    `gorm:"size:100"`
	LastName  string    `gorm:"size:100"`
	Email     string    `gorm:"size:255;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

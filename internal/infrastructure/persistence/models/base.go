package models

import "time"

// BaseModel carries the store-generated identity shared by every table.
type BaseModel struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`
}

// TimestampedModel adds the creation time for append-only records.
type TimestampedModel struct {
	BaseModel
	CreatedAt time.Time `gorm:"not null"`
}

package models

import "time"

// BaseModel is gorm.Model without the soft-delete column. Deletes on this
// schema are hard deletes; there are no tombstones to filter out of reads.
type BaseModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

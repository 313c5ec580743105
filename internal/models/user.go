package models

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "user"
)

type User struct {
	BaseModel

	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"not null" json:"role"` // matched against Role.Name by value, no FK
}

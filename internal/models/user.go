package models

import "time"

// User roles.
const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

// User represents an account of the ordering platform.
type User struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name       string    `json:"name" gorm:"type:varchar(100);not null" validate:"required,min=3,max=100"`
	Email      string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,email"`
	Phone      string    `json:"phone" gorm:"type:varchar(32)" validate:"required,phone"`
	Age        int       `json:"age" validate:"required,gte=18"`
	Role       string    `json:"role" gorm:"type:varchar(16);not null;default:user" validate:"omitempty,oneof=user admin manager"`
	Department string    `json:"department,omitempty" gorm:"type:varchar(100)" validate:"required_if=Role manager"`
	Password   string    `json:"-" gorm:"type:varchar(255);not null"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

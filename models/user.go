package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement:false" json:"userID" bson:"_id"`
	FullName  string    `json:"fullName" bson:"fullName"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email" bson:"email"`
	Password  string    `gorm:"not null" json:"-" bson:"password"` // bcrypt hash
	Role      Role      `gorm:"type:varchar(10);not null" json:"role" bson:"role"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

package models

// User represents a registered customer or seller account.
type User struct {
	BaseModel
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
	Email        string        `gorm:"uniqueIndex" json:"email"`
	DisplayName  string        `json:"display_name"`
	PasswordHash string        `json:"-"`
	IsSeller     bool          `json:"is_seller"`
	IsAdmin      bool          `json:"-"`
	Addresses    []UserAddress `json:"addresses,omitempty"`
	Orders       []Order       `json:"orders,omitempty"`
}

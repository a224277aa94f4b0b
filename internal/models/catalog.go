package models

type Category struct {
	BaseModel
	Name        string    `json:"name"`
	Slug        string    `gorm:"uniqueIndex" json:"slug"`
	Description string    `json:"description"`
	CardImage   string    `json:"card_image"`
	Products    []Product `json:"products,omitempty"`
}

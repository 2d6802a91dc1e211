package models

// Item represents a todo item
type Item struct {
	ID          int    `gorm:"column:Id;primaryKey;autoIncrement:false" json:"id" example:"1"`
	Title       string `gorm:"column:Title" json:"title" example:"Go to the gym"`
	IsCompleted bool   `gorm:"column:IsCompleted" json:"isCompleted" example:"false"`
}

// TableName pins the table to "Items" instead of GORM's snake_case plural.
func (Item) TableName() string {
	return "Items"
}

package category

// Category groups events by topic. Names are unique across the platform.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`
}

func (Category) TableName() string {
	return "categories"
}

type NewCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

type CategoryDto struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func ToCategoryDto(c *Category) CategoryDto {
	return CategoryDto{ID: c.ID, Name: c.Name}
}

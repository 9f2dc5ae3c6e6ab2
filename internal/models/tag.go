package models

type Tag struct {
	ID   uint64 `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`

	// Relations
	Posts []Post `gorm:"many2many:post_tags;" json:"-"`
}

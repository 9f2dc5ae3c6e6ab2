package models

import "time"

type Post struct {
	ID           uint64     `gorm:"primarykey" json:"id"`
	AuthorID     uint64     `gorm:"not null;index" json:"author_id"`
	Content      string     `gorm:"type:text;not null" json:"content"`
	Pinned       bool       `gorm:"not null;default:false;index" json:"pinned"`
	EditCount    int        `gorm:"not null;default:0" json:"edit_count"`
	LastEditedAt *time.Time `json:"last_edited_at"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relations
	Author  User    `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Tags    []Tag   `gorm:"many2many:post_tags;" json:"tags,omitempty"`
	Replies []Reply `gorm:"foreignKey:PostID" json:"replies,omitempty"`
	Votes   []Vote  `gorm:"foreignKey:PostID" json:"-"`
}

// TagNames returns the names of the loaded tags in their current order.
func (p *Post) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}
	return names
}

type Reply struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	PostID    uint64    `gorm:"not null;index" json:"post_id"`
	AuthorID  uint64    `gorm:"not null;index" json:"author_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

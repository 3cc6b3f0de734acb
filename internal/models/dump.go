package models

import (
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Well-known categories. Category is an open string: the classifier may
// invent labels outside this set and they are stored as-is.
const (
	CategoryTask     = "task"
	CategoryReminder = "reminder"
	CategoryNote     = "note"
	CategoryIdea     = "idea"
)

// CategoryFallback is used whenever classification fails or yields an
// empty label. A dump never persists with an empty category.
const CategoryFallback = CategoryNote

// BrainDump is one captured thought. A single submission can fan out into
// several rows when the classifier splits it into distinct items.
type BrainDump struct {
	BaseModel
	UserID    string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Text      string         `gorm:"type:text;not null" json:"text"`
	Category  string         `gorm:"type:varchar(100);not null" json:"category"`
	Priority  string         `gorm:"type:varchar(20)" json:"priority,omitempty"`
	Completed bool           `gorm:"default:false" json:"completed"`
	Tags      pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"tags"`

	// Details keeps the classifier item verbatim, so past dumps can be
	// re-examined when the prompt or model changes.
	Details datatypes.JSON `gorm:"type:jsonb" json:"-"`
}

func (BrainDump) TableName() string {
	return "brain_dumps"
}

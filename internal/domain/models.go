package domain

import "time"

type Category struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

// Condition of a listed item. Unset is the zero value and never valid on a stored item.
type Condition string

const (
	ConditionUnset Condition = ""
	ConditionNew   Condition = "new"
	ConditionUsed  Condition = "used"
)

// Valid reports whether c may be stored on an item.
func (c Condition) Valid() bool {
	switch c {
	case ConditionNew, ConditionUsed:
		return true
	case ConditionUnset:
		return false
	}
	return false
}

// ParseCondition maps user input to a storable condition.
func ParseCondition(s string) (Condition, bool) {
	c := Condition(s)
	return c, c.Valid()
}

type Item struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CategoryID  string    `db:"category_id" json:"category_id"`
	OwnerID     string    `db:"owner_id" json:"owner_id"`
	Condition   Condition `db:"condition" json:"condition"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

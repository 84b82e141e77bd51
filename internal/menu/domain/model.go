package domain

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("menu item not found")

// MenuItem is one entry of the archive's section menu. ID is the user-assigned
// dotted key ("1", "2.1"); DocID is the record store's own document id and the
// only handle used for deletion.
type MenuItem struct {
	DocID     string    `json:"doc_id"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	IconName  string    `json:"icon_name"`
	ParentID  string    `json:"parent_id"` // empty = root
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

// Node is a MenuItem plus its ordered children, as rendered by the sidebar.
type Node struct {
	MenuItem
	Children []*Node `json:"children"`
}

// Package models defines the records stored in the shared community document.
package models

// Member is a registered member as stored under users/<name>. Name is the
// record key and never changes once created. Password is kept as entered.
type Member struct {
	Name         string `json:"name"`
	Password     string `json:"password"`
	Phone        string `json:"phone"`
	Img          string `json:"img"`
	Paid         bool   `json:"paid"`
	RegisteredAt int64  `json:"registeredAt"`
}

// GalleryImage is one entry of the shared gallery.
type GalleryImage struct {
	Key  string
	Data string
}

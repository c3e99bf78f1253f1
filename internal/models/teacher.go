package models

// Teacher represents a roster entry. ID is the short code referenced by schedule mappings.
type Teacher struct {
	ID       string   `json:"id"`
	Name     string   `json:"nama"`
	Subjects []string `json:"mapel"`
}

// ClassInfo identifies a class group.
type ClassInfo struct {
	ID   string `json:"id"`
	Name string `json:"nama"`
}

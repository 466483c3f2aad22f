package models

// Student represents one student record.
type Student struct {
	ID    string `json:"id"`    // Globally unique id, assigned on create
	Name  string `json:"name"`  // Student name
	Class string `json:"class"` // Free-text class name, the grouping key
	Grade Grade  `json:"grade"` // Grade value, string or number on the wire
}

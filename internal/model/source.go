// Package model defines the data structures shared by the regroup packages.
package model

// Path represents a file system path.
type Path string

// FieldNames are the object-literal keys the patcher reads and writes.
type FieldNames struct {
	ID       string
	Group    string
	SubGroup string
}

// DefaultFieldNames matches the layout of the feature registry.
func DefaultFieldNames() FieldNames {
	return FieldNames{
		ID:       "id",
		Group:    "group",
		SubGroup: "subGroup",
	}
}

// Entry is one identifier declaration found in a document.
type Entry struct {
	ID             string
	Classification Classification
	Offset         int
}

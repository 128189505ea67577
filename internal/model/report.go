package model

// EntryStatus is the outcome of patching one mapping entry.
type EntryStatus int

const (
	// Patched indicates the entry block was rewritten.
	Patched EntryStatus = iota
	// Unchanged indicates the block already held the mapped values.
	Unchanged
	// Missing indicates the identifier is not declared in the document.
	Missing
	// Conflict indicates the block was left alone because it declares a
	// classification field more than once (strict mode only).
	Conflict
)

func (s EntryStatus) String() string {
	switch s {
	case Patched:
		return "patched"
	case Unchanged:
		return "unchanged"
	case Missing:
		return "missing"
	case Conflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// EntryReport describes what happened to one mapping entry.
type EntryReport struct {
	ID         string
	Status     EntryStatus
	Before     Classification
	After      Classification
	Duplicates []string // field names declared more than once in the block
}

// FileReport holds the patch results for a single file.
type FileReport struct {
	Path     Path
	Entries  []EntryReport
	Original string
	Updated  string
	Written  bool
}

// Changed reports whether patching altered the buffer.
func (r FileReport) Changed() bool {
	return r.Original != r.Updated
}

// Count returns how many entries ended with the given status.
func (r FileReport) Count(status EntryStatus) int {
	n := 0

	for _, e := range r.Entries {
		if e.Status == status {
			n++
		}
	}

	return n
}

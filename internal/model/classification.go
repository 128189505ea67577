package model

// Classification is the group/sub-group label pair assigned to an entry.
// An empty SubGroup means the mapping does not specify one.
type Classification struct {
	Group    string
	SubGroup string
}

// String renders the classification as group/subgroup.
func (c Classification) String() string {
	if c.SubGroup == "" {
		return c.Group
	}

	return c.Group + "/" + c.SubGroup
}

// MappingEntry pairs an identifier with its target classification.
type MappingEntry struct {
	ID             string
	Classification Classification
}

// MappingTable is applied in slice order.
type MappingTable []MappingEntry

// Lookup returns the classification the table assigns to id. When the table
// lists id more than once the last entry wins, mirroring Apply.
func (t MappingTable) Lookup(id string) (Classification, bool) {
	for i := len(t) - 1; i >= 0; i-- {
		if t[i].ID == id {
			return t[i].Classification, true
		}
	}

	return Classification{}, false
}

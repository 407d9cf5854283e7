package domain

// Group is one node of an aggregation tree. GroupedType names the dimension
// of GroupedData and both are nil on leaf levels.
type Group struct {
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Seconds     int64     `json:"seconds"`
	Cost        int64     `json:"cost"`
	GroupedType *GroupKey `json:"grouped_type"`
	GroupedData []Group   `json:"grouped_data"`
}

// IsLeaf reports whether the group has no nested level.
func (g Group) IsLeaf() bool {
	return g.GroupedData == nil
}

// Package filter describes ad-hoc list conditions passed by API clients.
package filter

import "fmt"

// ComparisonType is the comparison operator of one condition.
type ComparisonType string

const (
	Equal          ComparisonType = "eq"
	NotEqual       ComparisonType = "neq"
	Less           ComparisonType = "lt"
	LessOrEqual    ComparisonType = "lte"
	Greater        ComparisonType = "gt"
	GreaterOrEqual ComparisonType = "gte"
	InList         ComparisonType = "in"
	NotInList      ComparisonType = "nin"
	Contains       ComparisonType = "contains"  // ILIKE %val%
	NotContains    ComparisonType = "ncontains" // NOT ILIKE %val%

	// InHierarchy matches a tree node and all of its descendants
	// (Item Group, Warehouse). Value is the node code.
	InHierarchy    ComparisonType = "in_hierarchy"
	NotInHierarchy ComparisonType = "nin_hierarchy"

	IsNull    ComparisonType = "null"
	IsNotNull ComparisonType = "not_null"
)

// Item is one condition.
type Item struct {
	Field    string         `json:"field"` // column name (snake_case)
	Operator ComparisonType `json:"operator"`
	Value    any            `json:"value"`
}

var known = map[ComparisonType]struct{}{
	Equal: {}, NotEqual: {}, Less: {}, LessOrEqual: {}, Greater: {}, GreaterOrEqual: {},
	InList: {}, NotInList: {}, Contains: {}, NotContains: {},
	InHierarchy: {}, NotInHierarchy: {}, IsNull: {}, IsNotNull: {},
}

// Validate rejects unknown operators and empty fields.
func (i Item) Validate() error {
	if i.Field == "" {
		return fmt.Errorf("filter field is required")
	}
	if _, ok := known[i.Operator]; !ok {
		return fmt.Errorf("unknown filter operator %q", i.Operator)
	}
	return nil
}

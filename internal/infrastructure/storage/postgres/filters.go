package postgres

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"rms/internal/core/apperror"
	"rms/internal/domain/filter"
)

// Builder returns a squirrel builder with PostgreSQL placeholders.
func Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// HierarchyTables maps a filterable column to the nested-set table it
// references, enabling in_hierarchy / nin_hierarchy on that column.
type HierarchyTables map[string]string

// ApplyFilters adds ad-hoc conditions to q. Columns are checked against
// allowed to keep user input out of SQL identifiers.
func ApplyFilters(q squirrel.SelectBuilder, items []filter.Item, allowed []string, trees HierarchyTables) (squirrel.SelectBuilder, error) {
	valid := make(map[string]bool, len(allowed))
	for _, col := range allowed {
		valid[col] = true
	}

	for _, item := range items {
		if err := item.Validate(); err != nil {
			return q, apperror.NewValidation(err.Error())
		}
		if !valid[item.Field] {
			return q, apperror.NewValidation("invalid filter column").WithDetail("field", item.Field)
		}

		switch item.Operator {
		case filter.Equal, filter.InList:
			q = q.Where(squirrel.Eq{item.Field: item.Value})
		case filter.NotEqual, filter.NotInList:
			q = q.Where(squirrel.NotEq{item.Field: item.Value})
		case filter.Less:
			q = q.Where(squirrel.Lt{item.Field: item.Value})
		case filter.LessOrEqual:
			q = q.Where(squirrel.LtOrEq{item.Field: item.Value})
		case filter.Greater:
			q = q.Where(squirrel.Gt{item.Field: item.Value})
		case filter.GreaterOrEqual:
			q = q.Where(squirrel.GtOrEq{item.Field: item.Value})
		case filter.IsNull:
			q = q.Where(squirrel.Eq{item.Field: nil})
		case filter.IsNotNull:
			q = q.Where(squirrel.NotEq{item.Field: nil})
		case filter.Contains:
			q = q.Where(squirrel.ILike{item.Field: fmt.Sprintf("%%%v%%", item.Value)})
		case filter.NotContains:
			q = q.Where(squirrel.NotILike{item.Field: fmt.Sprintf("%%%v%%", item.Value)})
		case filter.InHierarchy, filter.NotInHierarchy:
			table, ok := trees[item.Field]
			if !ok {
				return q, apperror.NewValidation("column is not hierarchical").WithDetail("field", item.Field)
			}
			q = q.Where(SubtreeCondition(item.Field, table, item.Value, item.Operator == filter.NotInHierarchy))
		}
	}

	return q, nil
}

// SubtreeCondition matches rows whose column references a node inside the
// subtree of the node with the given code (nested set lft/rgt).
func SubtreeCondition(column, treeTable string, code any, negate bool) squirrel.Sqlizer {
	op := "IN"
	if negate {
		op = "NOT IN"
	}
	return squirrel.Expr(fmt.Sprintf(`%s %s (
		SELECT c.code FROM %s c, %s p
		WHERE p.code = ? AND c.lft >= p.lft AND c.rgt <= p.rgt
	)`, column, op, treeTable, treeTable), code)
}

// ParseOrderBy validates "field" / "-field" against the allowed columns.
func ParseOrderBy(orderBy, fallback string, allowed []string) (string, error) {
	if orderBy == "" {
		return fallback, nil
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}

	field = strings.TrimSpace(field)
	for _, col := range allowed {
		if col == field {
			return field + " " + direction, nil
		}
	}
	return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
}

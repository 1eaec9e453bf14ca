package repository

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"docemania/shared/dto"
)

const (
	argLimit  = "limit"
	argOffset = "offset"
)

// query renders the SQL statements of one table.
type query struct {
	table   string
	primary string
	columns []string
}

// columnsOf collects the db tags of t in field order, descending into
// embedded structs.
func columnsOf(t reflect.Type) []string {
	var columns []string

	for i := range t.NumField() {
		field := t.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			columns = append(columns, columnsOf(field.Type)...)

			continue
		}

		if tag := field.Tag.Get("db"); tag != "" && tag != "-" {
			columns = append(columns, tag)
		}
	}

	return columns
}

func where(filter dto.FilterGroup) (string, map[string]any) {
	clause, args := filter.GetWhereClause()
	if clause == "" {
		return "", map[string]any{}
	}

	return " WHERE " + clause, args
}

func (q query) insert() string {
	placeholders := make([]string, len(q.columns))
	for i, col := range q.columns {
		placeholders[i] = ":" + col
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		q.table, strings.Join(q.columns, ", "), strings.Join(placeholders, ", "))
}

// selectList qualifies the requested columns, or all of them when none are
// given. Unknown names are ignored.
func (q query) selectList(only ...string) string {
	selected := make([]string, 0, len(q.columns))

	for _, col := range q.columns {
		if len(only) > 0 && !slices.Contains(only, col) {
			continue
		}

		selected = append(selected, q.table+"."+col)
	}

	if len(selected) == 0 {
		return q.table + ".*"
	}

	return strings.Join(selected, ", ")
}

// orderBy only accepts a known column and ASC or DESC, so nothing from the
// request is ever interpolated unchecked.
func (q query) orderBy(params dto.QueryParams) string {
	if params.SortDir != dto.SortDirAsc && params.SortDir != dto.SortDirDesc {
		return ""
	}

	if !slices.Contains(q.columns, params.SortBy) {
		return ""
	}

	return fmt.Sprintf(" ORDER BY %s.%s %s", q.table, params.SortBy, params.SortDir)
}

func (q query) selectRows(params dto.QueryParams, filter dto.FilterGroup, only ...string) (string, map[string]any) {
	clause, args := where(filter)

	statement := fmt.Sprintf("SELECT %s FROM %s%s%s", q.selectList(only...), q.table, clause, q.orderBy(params))

	if params.Paginated() {
		args[argLimit] = params.Limit
		statement += " LIMIT :" + argLimit

		if params.Page > 1 {
			args[argOffset] = (params.Page - 1) * params.Limit
			statement += " OFFSET :" + argOffset
		}
	}

	return statement, args
}

func (q query) count(filter dto.FilterGroup) (string, map[string]any) {
	clause, args := where(filter)

	return fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s%s", q.table, q.primary, q.table, clause), args
}

func (q query) exists(filter dto.FilterGroup) (string, map[string]any, error) {
	clause, args := where(filter)
	if clause == "" {
		return "", nil, ErrRequiredFilter
	}

	return fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s%s)", q.table, clause), args, nil
}

// update sets columns in name order. Filter arguments win over field values
// of the same name, so filters should use a distinct ArgName when they touch
// an updated column.
func (q query) update(fields map[string]any, filter dto.FilterGroup) (string, map[string]any, error) {
	if len(fields) == 0 {
		return "", nil, ErrNoFields
	}

	clause, args := where(filter)
	if clause == "" {
		return "", nil, ErrRequiredFilter
	}

	names := slices.Sorted(maps.Keys(fields))
	assignments := make([]string, len(names))

	for i, name := range names {
		assignments[i] = fmt.Sprintf("%s = :%s", name, name)
	}

	merged := maps.Clone(fields)
	maps.Copy(merged, args)

	return fmt.Sprintf("UPDATE %s SET %s%s", q.table, strings.Join(assignments, ", "), clause), merged, nil
}

func (q query) delete(filter dto.FilterGroup) (string, map[string]any, error) {
	clause, args := where(filter)
	if clause == "" {
		return "", nil, ErrRequiredFilter
	}

	return fmt.Sprintf("DELETE FROM %s%s", q.table, clause), args, nil
}

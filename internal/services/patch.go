package services

import (
	"fmt"
	"strings"
)

// Patch collects the optional fields of a partial-update request in order.
// One builder serves every entity; an empty patch is rejected with
// NoFieldsProvided before any SQL runs.
type Patch struct {
	columns []string
	args    []interface{}
}

func (p *Patch) Set(column string, value interface{}) {
	p.columns = append(p.columns, column)
	p.args = append(p.args, value)
}

// SetString adds the column only when the request actually carried the field.
func (p *Patch) SetString(column string, value *string) {
	if value != nil && strings.TrimSpace(*value) != "" {
		p.Set(column, strings.TrimSpace(*value))
	}
}

func (p *Patch) SetInt(column string, value *int) {
	if value != nil {
		p.Set(column, *value)
	}
}

func (p *Patch) Empty() bool {
	return len(p.columns) == 0
}

// Build renders "UPDATE <table> SET c1 = $1, ... WHERE <keyColumn> = $n"
// with the key appended as the final argument.
func (p *Patch) Build(table, keyColumn string, key interface{}) (string, []interface{}, error) {
	if p.Empty() {
		return "", nil, ErrNoFieldsProvided()
	}
	assignments := make([]string, 0, len(p.columns))
	for i, column := range p.columns {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, i+1))
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		table, strings.Join(assignments, ", "), keyColumn, len(p.columns)+1)
	args := append(append([]interface{}{}, p.args...), key)
	return query, args, nil
}

package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

type Condition interface {
	appendSQL(buf *strings.Builder, args *[]any, argIndex *int)
}

type compareCondition struct {
	column string
	op     string
	value  any
}

func Eq(column string, value any) Condition {
	return compareCondition{column: column, op: "=", value: value}
}

func Gte(column string, value any) Condition {
	return compareCondition{column: column, op: ">=", value: value}
}

func Lte(column string, value any) Condition {
	return compareCondition{column: column, op: "<=", value: value}
}

func (c compareCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	buf.WriteString(c.column)
	buf.WriteString(" ")
	buf.WriteString(c.op)
	buf.WriteString(" ")
	buf.WriteString(nextPlaceholder(args, argIndex, c.value))
}

type inCondition struct {
	column string
	values []any
}

// In renders "column IN (...)"; an empty list matches nothing.
func In(column string, values []any) Condition {
	return inCondition{column: column, values: values}
}

func (c inCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	if len(c.values) == 0 {
		buf.WriteString("1=0")
		return
	}

	buf.WriteString(c.column)
	buf.WriteString(" IN (")
	for i, v := range c.values {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(nextPlaceholder(args, argIndex, v))
	}
	buf.WriteString(")")
}

type exprCondition struct {
	expr string
	args []any
}

// Expr embeds a raw expression; each '?' consumes one of args.
func Expr(expr string, args ...any) Condition {
	return exprCondition{expr: expr, args: args}
}

func (c exprCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	buf.WriteString(rewritePlaceholders(c.expr, c.args, args, argIndex))
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	var buf strings.Builder
	buf.WriteString("SELECT ")
	buf.WriteString(strings.Join(b.columns, ", "))
	buf.WriteString(" FROM ")
	buf.WriteString(b.table)

	args := make([]any, 0, len(b.where))
	argIndex := 1
	appendWhereClause(&buf, b.where, &args, &argIndex)
	if len(b.orderBy) > 0 {
		buf.WriteString(" ORDER BY ")
		buf.WriteString(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		buf.WriteString(" LIMIT ")
		buf.WriteString(strconv.Itoa(b.limit))
	}

	return buf.String(), args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.rows) == 0 {
		return "", nil, fmt.Errorf("insert values are required")
	}

	var buf strings.Builder
	buf.WriteString("INSERT INTO ")
	buf.WriteString(b.table)
	buf.WriteString(" (")
	buf.WriteString(strings.Join(b.columns, ", "))
	buf.WriteString(") VALUES ")

	args := make([]any, 0, len(b.rows)*len(b.columns))
	argIndex := 1
	for rowIdx, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", rowIdx, len(row), len(b.columns))
		}
		if rowIdx > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString("(")
		for colIdx, value := range row {
			if colIdx > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(nextPlaceholder(&args, &argIndex, value))
		}
		buf.WriteString(")")
	}

	if b.suffix != "" {
		buf.WriteString(" ")
		buf.WriteString(b.suffix)
	}

	return buf.String(), args, nil
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("delete table is required")
	}
	if len(b.where) == 0 {
		return "", nil, fmt.Errorf("delete without conditions is not allowed")
	}

	var buf strings.Builder
	buf.WriteString("DELETE FROM ")
	buf.WriteString(b.table)

	args := make([]any, 0, len(b.where))
	argIndex := 1
	appendWhereClause(&buf, b.where, &args, &argIndex)

	return buf.String(), args, nil
}

func appendWhereClause(buf *strings.Builder, conditions []Condition, args *[]any, argIndex *int) {
	if len(conditions) == 0 {
		return
	}
	buf.WriteString(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			buf.WriteString(" AND ")
		}
		c.appendSQL(buf, args, argIndex)
	}
}

func nextPlaceholder(args *[]any, argIndex *int, value any) string {
	p := "$" + strconv.Itoa(*argIndex)
	*args = append(*args, value)
	*argIndex = *argIndex + 1
	return p
}

func rewritePlaceholders(expr string, exprArgs []any, args *[]any, argIndex *int) string {
	if len(exprArgs) == 0 {
		return expr
	}

	var out strings.Builder
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' && next < len(exprArgs) {
			out.WriteString(nextPlaceholder(args, argIndex, exprArgs[next]))
			next++
			continue
		}
		out.WriteByte(expr[i])
	}
	return out.String()
}

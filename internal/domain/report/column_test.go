package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewColumn(t *testing.T) {
	col := NewColumn("created_at")

	assert.Equal(t, "created_at", col.Key)
	assert.Equal(t, "created_at", col.Query)
	assert.Equal(t, "created_at", col.Order)
	assert.Equal(t, "Created At", col.Label)
	assert.True(t, col.Sortable)
}

func TestColumn_Normalized_FillsQueryFromKey(t *testing.T) {
	col := Column{Key: "salary", Sortable: true}.normalized()

	assert.Equal(t, "salary", col.Query)
	assert.Equal(t, "salary", col.Order)
	assert.Equal(t, "Salary", col.Label)
}

func TestColumn_Normalized_FillsOrderFromQuery(t *testing.T) {
	col := Column{
		Key:      "hired",
		Query:    "DATE_FORMAT(hire_date, '%Y-%m-%d')",
		Label:    "Hire Date",
		Sortable: true,
	}.normalized()

	assert.Equal(t, "DATE_FORMAT(hire_date, '%Y-%m-%d')", col.Order)
	assert.Equal(t, "Hire Date", col.Label)
}

func TestColumn_Normalized_KeepsExplicitOrder(t *testing.T) {
	col := Column{
		Key:      "hired",
		Query:    "DATE_FORMAT(hire_date, '%Y-%m-%d')",
		Order:    "hire_date",
		Sortable: true,
	}.normalized()

	// The raw expression stays in place so ordering is not lexical on the
	// formatted value.
	assert.Equal(t, "hire_date", col.Order)
}

func TestColumn_Normalized_DerivesLabelFromKey(t *testing.T) {
	col := Column{Key: "last_login_date", Query: "last_login_date"}.normalized()

	assert.Equal(t, "Last Login Date", col.Label)
}

package report

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validDefinition() Definition {
	return Definition{
		Name:   "employees",
		Source: "FROM employees WHERE active = 1",
		Columns: []Column{
			NewColumn("name"),
			NewColumn("age"),
			{Key: "notes", Query: "notes", Sortable: false},
		},
		DefaultSort: "name",
		PageSize:    25,
		WindowSize:  5,
	}.Normalized()
}

func TestDefinition_Normalized_DerivesTitle(t *testing.T) {
	def := Definition{Name: "open_tickets"}.Normalized()

	assert.Equal(t, "Open Tickets", def.Title)
}

func TestDefinition_Normalized_KeepsExplicitTitle(t *testing.T) {
	def := Definition{Name: "open_tickets", Title: "Tickets"}.Normalized()

	assert.Equal(t, "Tickets", def.Title)
}

func TestDefinition_Normalized_PicksFirstSortableDefault(t *testing.T) {
	def := Definition{
		Name: "employees",
		Columns: []Column{
			{Key: "notes", Sortable: false},
			{Key: "name", Sortable: true},
			{Key: "age", Sortable: true},
		},
	}.Normalized()

	assert.Equal(t, "name", def.DefaultSort)
}

func TestDefinition_Normalized_KeepsExplicitDefaultSort(t *testing.T) {
	def := validDefinition()

	assert.Equal(t, "name", def.DefaultSort)
}

func TestDefinition_Validate_OK(t *testing.T) {
	assert.NoError(t, validDefinition().Validate())
}

func TestDefinition_Validate_MissingName(t *testing.T) {
	def := validDefinition()
	def.Name = ""

	err := def.Validate()

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "name", vErr.Field)
}

func TestDefinition_Validate_MissingSource(t *testing.T) {
	def := validDefinition()
	def.Source = ""

	err := def.Validate()

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "source", vErr.Field)
}

func TestDefinition_Validate_NoColumns(t *testing.T) {
	def := validDefinition()
	def.Columns = nil

	assert.ErrorIs(t, def.Validate(), ErrNoColumns)
}

func TestDefinition_Validate_DuplicateColumnKey(t *testing.T) {
	def := validDefinition()
	def.Columns = append(def.Columns, NewColumn("name"))

	assert.ErrorIs(t, def.Validate(), ErrDuplicateColumn)
}

func TestDefinition_Validate_UnknownDefaultSort(t *testing.T) {
	def := validDefinition()
	def.DefaultSort = "missing"

	assert.ErrorIs(t, def.Validate(), ErrInvalidDefaultSort)
}

func TestDefinition_Validate_NonSortableDefaultSort(t *testing.T) {
	def := validDefinition()
	def.DefaultSort = "notes"

	assert.ErrorIs(t, def.Validate(), ErrInvalidDefaultSort)
}

func TestDefinition_Validate_NoSortableColumnAtAll(t *testing.T) {
	// With no sortable column there is nothing to order by; normalization
	// leaves the default sort empty and validation rejects the definition.
	def := Definition{
		Name:       "fixed",
		Source:     "FROM fixed_rows",
		Columns:    []Column{{Key: "notes", Sortable: false}},
		PageSize:   10,
		WindowSize: 5,
	}.Normalized()

	assert.ErrorIs(t, def.Validate(), ErrInvalidDefaultSort)
}

func TestDefinition_Validate_PageSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		def := validDefinition()
		def.PageSize = size

		assert.ErrorIs(t, def.Validate(), ErrInvalidPageSize)
	}
}

func TestDefinition_Validate_WindowSize(t *testing.T) {
	for _, size := range []int{0, -5} {
		def := validDefinition()
		def.WindowSize = size

		assert.ErrorIs(t, def.Validate(), ErrInvalidWindowSize)
	}
}

func TestDefinition_Column(t *testing.T) {
	def := validDefinition()

	col, ok := def.Column("age")
	assert.True(t, ok)
	assert.Equal(t, "age", col.Key)

	_, ok = def.Column("missing")
	assert.False(t, ok)
}

func TestDefinition_Validate_WrappedErrorsCarryReportName(t *testing.T) {
	def := validDefinition()
	def.PageSize = 0

	err := def.Validate()

	assert.True(t, errors.Is(err, ErrInvalidPageSize))
	assert.Contains(t, err.Error(), "employees")
}

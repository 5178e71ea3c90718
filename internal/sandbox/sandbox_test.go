package sandbox

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSandbox(t *testing.T) *Sandbox {
	t.Helper()

	sb, err := Open(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sb.Close() })
	return sb
}

func TestSeedCounts(t *testing.T) {
	sb := openSandbox(t)

	tables := map[string]string{
		"Departments":      "4",
		"Employees":        "9",
		"Customers":        "5",
		"Products":         "5",
		"Orders":           "4",
		"OrderItems":       "6",
		"Payments":         "7",
		"Projects":         "3",
		"EmployeeProjects": "6",
	}

	for table, want := range tables {
		res, err := sb.Query(context.Background(), "SELECT COUNT(*) FROM "+table)
		require.NoError(t, err, table)
		assert.Equal(t, [][]string{{want}}, res.Rows, table)
	}
}

func TestQueryRendersValues(t *testing.T) {
	sb := openSandbox(t)

	res, err := sb.Query(context.Background(),
		"SELECT FirstName, DepartmentID, Salary, Salary / 2.0 FROM Employees WHERE EmployeeID IN (1, 9) ORDER BY EmployeeID")
	require.NoError(t, err)

	assert.Equal(t, []string{"FirstName", "DepartmentID", "Salary", "Salary / 2.0"}, res.Columns)
	assert.Equal(t, [][]string{
		{"Amr", "1", "15000", "7500"},
		{"Youssef", "NULL", "5000", "2500"},
	}, res.Rows)
}

func TestQueryEmptyResultIsNotNil(t *testing.T) {
	sb := openSandbox(t)

	res, err := sb.Query(context.Background(), "SELECT * FROM Employees WHERE 1 = 0")
	require.NoError(t, err)
	assert.NotNil(t, res.Rows)
	assert.Empty(t, res.Rows)
}

func TestSandboxIsReadOnly(t *testing.T) {
	sb := openSandbox(t)

	_, err := sb.Query(context.Background(), "DELETE FROM Employees")
	require.Error(t, err)

	res, err := sb.Query(context.Background(), "SELECT COUNT(*) FROM Employees")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"9"}}, res.Rows)
}

func TestQueryErrors(t *testing.T) {
	sb := openSandbox(t)

	_, err := sb.Query(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = sb.Query(context.Background(), "SELECT * FROM NoSuchTable")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such table")
}

func TestSandboxesAreIsolated(t *testing.T) {
	a := openSandbox(t)
	b := openSandbox(t)

	ra, err := a.Query(context.Background(), "SELECT COUNT(*) FROM Payments")
	require.NoError(t, err)
	rb, err := b.Query(context.Background(), "SELECT COUNT(*) FROM Payments")
	require.NoError(t, err)
	assert.Equal(t, ra.Rows, rb.Rows)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "NULL", FormatValue(nil))
	assert.Equal(t, "abc", FormatValue([]byte("abc")))
	assert.Equal(t, "42", FormatValue(int64(42)))
	assert.Equal(t, "2400", FormatValue(float64(2400)))
	assert.Equal(t, "12.5", FormatValue(12.5))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "2024-03-01", FormatValue(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-03-01T10:30:00Z", FormatValue(time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)))
}

package sqlerr

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/hadywafa/DatabaseHub/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func asHTTP(t *testing.T, err error) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestMapCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, MapCode("23505"))
	assert.Equal(t, UndefinedTable, MapCode("42P01"))
	assert.Equal(t, ConnectionFailure, MapCode("08006"))
	assert.Equal(t, Other, MapCode("XX000"))
}

func TestMapSeverity(t *testing.T) {
	assert.Equal(t, SeverityFatal, MapSeverity("FATAL"))
	assert.Equal(t, SeverityError, MapSeverity("weird"))
}

func TestHandleErrorPassesHTTPErrorThrough(t *testing.T) {
	original := errs.NewForbiddenError("no", false)
	assert.Same(t, original, HandleError(original))
}

func TestHandleErrorUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{
		Code:           "23505",
		Severity:       "ERROR",
		TableName:      "verification_runs",
		ConstraintName: "verification_runs_id_key",
	})

	httpErr := asHTTP(t, HandleError(err))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "VERIFICATION_RUN_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "A Verification Run with this Id already exists", httpErr.Message)
}

func TestHandleErrorNotNullViolation(t *testing.T) {
	httpErr := asHTTP(t, HandleError(&pgconn.PgError{
		Code:       "23502",
		TableName:  "verification_runs",
		ColumnName: "problem_id",
	}))

	assert.Equal(t, "VERIFICATION_RUN_REQUIRED", httpErr.Code)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "problem_id", httpErr.Errors[0].Field)
}

func TestHandleErrorUndefinedTable(t *testing.T) {
	httpErr := asHTTP(t, HandleError(&pgconn.PgError{Code: "42P01"}))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Status)
}

func TestHandleErrorNoRows(t *testing.T) {
	for _, base := range []error{pgx.ErrNoRows, sql.ErrNoRows, gorm.ErrRecordNotFound} {
		httpErr := asHTTP(t, HandleError(WithTable("verification_runs", base)))
		assert.Equal(t, http.StatusNotFound, httpErr.Status)
		assert.Equal(t, "Verification Run not found", httpErr.Message)
	}

	httpErr := asHTTP(t, HandleError(pgx.ErrNoRows))
	assert.Equal(t, "Resource not found", httpErr.Message)
}

func TestHandleErrorDeadline(t *testing.T) {
	httpErr := asHTTP(t, HandleError(fmt.Errorf("query: %w", context.DeadlineExceeded)))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Status)
}

func TestHandleErrorCanceled(t *testing.T) {
	httpErr := asHTTP(t, HandleError(fmt.Errorf("list runs: %w", context.Canceled)))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Status)
}

func TestHandleErrorConnectFailure(t *testing.T) {
	_, err := pgconn.Connect(context.Background(), "postgres://nobody@127.0.0.1:1/none?connect_timeout=1")
	require.Error(t, err)

	var connErr *pgconn.ConnectError
	require.ErrorAs(t, err, &connErr)

	httpErr := asHTTP(t, HandleError(fmt.Errorf("acquire: %w", err)))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Status)
	assert.Equal(t, "The database is temporarily unavailable", httpErr.Message)
}

func TestHandleErrorUnknown(t *testing.T) {
	httpErr := asHTTP(t, HandleError(errors.New("boom")))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	assert.Equal(t, "email", extractColumnForUniqueViolation("unique_users_email"))
	assert.Equal(t, "email", extractColumnForUniqueViolation("users_email_key"))
	assert.Equal(t, "", extractColumnForUniqueViolation("pk_users"))
}

func TestWithTableNil(t *testing.T) {
	assert.NoError(t, WithTable("x", nil))
}

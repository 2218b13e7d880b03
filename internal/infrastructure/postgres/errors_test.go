package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/domain"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := fmt.Errorf("insert product: %w", &pgconn.PgError{Code: "23505", ConstraintName: "products_pkey"})
	assert.True(t, isUniqueViolation(dup))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23514"}))
	assert.False(t, isUniqueViolation(errors.New("ERROR 23505 en el mensaje no cuenta")))
}

func TestCheckViolation_NombraLaColumna(t *testing.T) {
	err := checkViolation(fmt.Errorf("update product: %w", &pgconn.PgError{
		Code: "23514", TableName: "products", ConstraintName: "products_stock_check",
	}))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "stock", verr.Field)

	assert.NoError(t, checkViolation(&pgconn.PgError{Code: "23505"}))
	assert.NoError(t, checkViolation(errors.New("timeout")))
}

package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTranslate_Nil(t *testing.T) {
	assert.NoError(t, Translate("op", nil))
}

func TestTranslate_RecordNotFound(t *testing.T) {
	err := Translate("find", fmt.Errorf("query: %w", gorm.ErrRecordNotFound))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTranslate_MySQLDuplicate(t *testing.T) {
	driverErr := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'shirt' for key 'products.idx_products_slug'"}

	err := Translate("create product", driverErr)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "slug", ve.Field)
	assert.ErrorIs(t, err, driverErr)
}

func TestTranslate_PostgresUniqueViolation(t *testing.T) {
	driverErr := &pgconn.PgError{Code: "23505", Detail: "Key (title)=(Shirt) already exists.", ConstraintName: "idx_products_title"}

	err := Translate("create product", driverErr)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "title", ve.Field)
	assert.Equal(t, "Key (title)=(Shirt) already exists.", ve.Detail)
}

func TestTranslate_SQLiteUnique(t *testing.T) {
	err := Translate("create product", errors.New("constraint failed: UNIQUE constraint failed: products.slug (2067)"))

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "slug", ve.Field)
}

func TestTranslate_OtherFailureIsPersistenceError(t *testing.T) {
	cause := &pgconn.PgError{Code: "40001", Message: "serialization failure"}

	err := Translate("save product", cause)

	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "save product", pe.Op)
	assert.ErrorIs(t, err, cause)
	var ve *ValidationError
	assert.False(t, errors.As(err, &ve))
}

func TestTranslate_AlreadyClassifiedPassesThrough(t *testing.T) {
	pe := &PersistenceError{Op: "inner", Err: errors.New("boom")}

	err := Translate("outer", fmt.Errorf("wrapped: %w", pe))

	var got *PersistenceError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, "inner", got.Op)
}

package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/catalog-api/internal/config"
)

func testConfig(driver string) config.Config {
	return config.Config{
		DBDriver: driver,
		DBUser:   "shop",
		DBPass:   "secret",
		DBHost:   "db",
		DBPort:   "3306",
		DBName:   "catalog",
	}
}

func TestMySQLDSN(t *testing.T) {
	dsn := MySQLDSN(testConfig("mysql"))

	assert.Contains(t, dsn, "shop:secret@tcp(db:3306)/catalog?")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
	assert.Contains(t, dsn, "clientFoundRows=true")
}

func TestPostgresDSN_OmitsEmptyPassword(t *testing.T) {
	cfg := testConfig("postgres")
	cfg.DBPass = ""

	dsn := PostgresDSN(cfg)

	assert.Contains(t, dsn, "host=db port=3306 user=shop dbname=catalog")
	assert.NotContains(t, dsn, "password=")
}

func TestDialector(t *testing.T) {
	d, err := Dialector(testConfig("mysql"))
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())

	d, err = Dialector(testConfig("postgres"))
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = Dialector(testConfig("oracle"))
	assert.Error(t, err)
}

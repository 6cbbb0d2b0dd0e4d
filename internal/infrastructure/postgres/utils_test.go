package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%tornillo%", likePattern(" tornillo "))
	assert.Equal(t, `%50\%\_off%`, likePattern("50%_off"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}

func TestPgErrorCodes(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isLockTimeout(&pgconn.PgError{Code: "55P03"}))
}

func TestSplitStatements(t *testing.T) {
	script := "-- comentario\nCREATE TABLE a (\n  id TEXT\n);\n\nCREATE INDEX i ON a (id);\n"
	stmts := splitStatements(script)
	assert.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (\n  id TEXT\n);", stmts[0])
}

func TestMigrationsEmbebidas(t *testing.T) {
	raw, err := migrationsFS.ReadFile("migrations/001_schema.sql")
	assert.NoError(t, err)
	stmts := splitStatements(string(raw))
	assert.Greater(t, len(stmts), 10)
	for _, s := range stmts {
		assert.NotContains(t, s, "--")
	}
}

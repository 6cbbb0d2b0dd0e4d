package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// isLockTimeout lock_not_available (55P03): SET LOCAL lock_timeout vencido.
func isLockTimeout(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "55P03"
}

// likePattern arma un patrón ILIKE de subcadena escapando los comodines del usuario.
func likePattern(search string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(search)) + "%"
}

// optionalID convierte una columna TEXT NULL en OptionalID.
func optionalID(s *string) entity.OptionalID {
	return entity.OptionalIDFromPtr(s)
}

// limitOrAll LIMIT NULL en Postgres equivale a sin límite.
func limitOrAll(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}

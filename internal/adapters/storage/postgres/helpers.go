package postgres

import (
	"database/sql"
	"strconv"
	"time"
)

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// itoa acorta el armado de placeholders ($1, $2, ...) en queries dinámicos.
func itoa(n int) string {
	return strconv.Itoa(n)
}

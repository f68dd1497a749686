package mysql

import (
	"database/sql"
	"errors"
	"time"

	driver "github.com/go-sql-driver/mysql"

	"github.com/rxtract/prescription-data/internal/domain/validation"
)

const (
	errDuplicateEntry uint16 = 1062
	errFKViolation    uint16 = 1452
)

// translate maps driver errors onto the schema error types so the database
// backstops the pre-write checks. uniqueField/refField name the column most
// likely at fault for the statement.
func translate(err error, uniqueField, refField string) error {
	if err == nil {
		return nil
	}
	var me *driver.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case errDuplicateEntry:
			if uniqueField != "" {
				return validation.Errf(uniqueField, "unique", "%s", me.Message)
			}
		case errFKViolation:
			if refField != "" {
				return &validation.ReferentialError{Field: refField}
			}
		}
	}
	return err
}

func nullStr(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func strPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

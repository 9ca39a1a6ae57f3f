package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const civilDateLayout = "2006-01-02"

// pgtypeToUUIDString converts pgtype.UUID to its string form (empty if
// NULL).
func pgtypeToUUIDString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return uuid.UUID(id.Bytes).String()
}

// pgtypeToUUIDStringPtr converts pgtype.UUID to *string (nil if NULL).
func pgtypeToUUIDStringPtr(id pgtype.UUID) *string {
	if !id.Valid {
		return nil
	}
	s := uuid.UUID(id.Bytes).String()
	return &s
}

// pgtypeToCivilDatePtr converts a DATE column to the domain's calendar
// date form, ISO "YYYY-MM-DD" (nil if NULL). The date is formatted as
// stored; no timezone shifting happens here.
func pgtypeToCivilDatePtr(d pgtype.Date) *string {
	if !d.Valid {
		return nil
	}
	s := d.Time.Format(civilDateLayout)
	return &s
}

// pgtypeToTime converts pgtype.Timestamptz to time.Time in UTC (zero
// if NULL).
func pgtypeToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time.UTC()
}

// pgtypeToTimePtr converts pgtype.Timestamptz to *time.Time in UTC
// (nil if NULL).
func pgtypeToTimePtr(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	utcTime := t.Time.UTC()
	return &utcTime
}

// pgtypeToString converts pgtype.Text to string (empty if NULL).
func pgtypeToString(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

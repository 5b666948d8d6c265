package sqldb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"hotel_inventory/internal/domain"
)

// MySQL server error numbers.
const (
	mysqlDupEntry        = 1062
	mysqlNoReferencedRow = 1452
	mysqlOutOfRange      = 1264
	mysqlCheckViolated   = 3819
)

type constraintKind int

const (
	noConstraint constraintKind = iota
	uniqueConstraint
	foreignKeyConstraint
	checkConstraint
	rangeConstraint
)

func classify(err error) (constraintKind, string) {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDupEntry:
			return uniqueConstraint, me.Message
		case mysqlNoReferencedRow:
			return foreignKeyConstraint, me.Message
		case mysqlCheckViolated:
			return checkConstraint, me.Message
		case mysqlOutOfRange:
			return rangeConstraint, me.Message
		}
		return noConstraint, ""
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		msg := se.Error()
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return uniqueConstraint, msg
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return foreignKeyConstraint, msg
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return checkConstraint, msg
		}
		// Extended codes are off unless the connection asks for them.
		switch {
		case strings.Contains(msg, "UNIQUE constraint failed"):
			return uniqueConstraint, msg
		case strings.Contains(msg, "FOREIGN KEY constraint failed"):
			return foreignKeyConstraint, msg
		case strings.Contains(msg, "CHECK constraint failed"):
			return checkConstraint, msg
		}
	}
	return noConstraint, ""
}

// hotelConstraintErr maps a failed hotel write to the matching domain error.
func hotelConstraintErr(err error) error {
	kind, msg := classify(err)
	switch kind {
	case uniqueConstraint:
		switch {
		case strings.Contains(msg, "tax_id"):
			return domain.InvalidField("tax_id", "unique", "the tax_id is already registered to another hotel")
		case strings.Contains(msg, "name"):
			return domain.InvalidField("name", "unique", "the hotel name is already in use")
		}
	case checkConstraint:
		return domain.InvalidField("max_rooms", "min", "max_rooms must be at least 1")
	case rangeConstraint:
		return domain.InvalidField("max_rooms", "max", fmt.Sprintf("max_rooms must not exceed %d", domain.MaxCount))
	}
	return err
}

// roomConstraintErr maps a failed room write to the matching domain error.
func roomConstraintErr(err error, r domain.Room) error {
	kind, _ := classify(err)
	switch kind {
	case uniqueConstraint:
		return domain.DuplicateRoomType(r.Type, r.Accommodation)
	case foreignKeyConstraint:
		return domain.MissingReference("hotel_id", "hotel")
	case checkConstraint:
		return domain.InvalidField("quantity", "min", "quantity must be at least 1")
	case rangeConstraint:
		return domain.InvalidField("quantity", "max", fmt.Sprintf("quantity must not exceed %d", domain.MaxCount))
	}
	return err
}

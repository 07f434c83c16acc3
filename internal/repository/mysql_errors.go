package repository

import "strings"

// MySQL reports constraint violations through numeric error codes embedded
// in the driver error. 1062 is ER_DUP_ENTRY (unique index violation) and
// 1452 is ER_NO_REFERENCED_ROW_2 (foreign key violation).

func isDuplicateErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

func isForeignKeyErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1452")
}

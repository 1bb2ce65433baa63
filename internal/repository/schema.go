package repository

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"venuebooking/internal/database"
)

const approvedOverlapConstraint = "reservations_no_approved_overlap"

// Migrate creates or updates every table the service owns. On PostgreSQL it
// also installs the exclusion constraint that forbids two overlapping rows in
// the approved status on the same venue and date.
func Migrate(db *gorm.DB, approvedLabel string) error {
	if err := db.AutoMigrate(
		&userModel{},
		&venueModel{},
		&reservationModel{},
		&statusHistoryModel{},
		&notificationModel{},
		&venueDayLockModel{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if database.Dialect(db) != database.DialectPostgres {
		return nil
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("enable btree_gist: %w", err)
	}

	var current string
	if err := db.Raw(
		`SELECT pg_get_constraintdef(oid) FROM pg_constraint WHERE conname = ?`, approvedOverlapConstraint,
	).Scan(&current).Error; err != nil {
		return fmt.Errorf("read %s: %w", approvedOverlapConstraint, err)
	}

	switch {
	case current == "":
	case constraintGuardsLabel(current, approvedLabel):
		return nil
	default:
		log.Printf("migrate: WARNING %s guards a different status than %q, recreating: %s",
			approvedOverlapConstraint, approvedLabel, current)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if current != "" {
			if err := tx.Exec(fmt.Sprintf(`ALTER TABLE reservations DROP CONSTRAINT %s`, approvedOverlapConstraint)).Error; err != nil {
				return err
			}
		}
		return tx.Exec(exclusionConstraintDDL(approvedLabel)).Error
	})
	if err != nil {
		return fmt.Errorf("add %s: %w", approvedOverlapConstraint, err)
	}
	log.Printf("migrate: exclusion constraint %s ensured for status=%s", approvedOverlapConstraint, approvedLabel)
	return nil
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func exclusionConstraintDDL(approvedLabel string) string {
	return fmt.Sprintf(`ALTER TABLE reservations ADD CONSTRAINT %s
  EXCLUDE USING gist (
    venue_id WITH =,
    reservation_date WITH =,
    int4range(start_minute, end_minute) WITH &&
  ) WHERE (status = %s)`, approvedOverlapConstraint, quoteLiteral(approvedLabel))
}

// constraintGuardsLabel reports whether a definition returned by
// pg_get_constraintdef filters on exactly label, e.g.
// WHERE (((status)::text = 'aprobada'::text)).
func constraintGuardsLabel(def, label string) bool {
	lit := quoteLiteral(label)
	i := strings.Index(def, "WHERE")
	if i < 0 {
		return false
	}
	where := def[i:]
	return strings.Contains(where, "= "+lit+"::") || strings.Contains(where, "= "+lit+")")
}

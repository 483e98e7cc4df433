package database

import (
	"fmt"

	"gorm.io/gorm"

	"procurement-backend/models"
)

// AutoMigrate applies (idempotent) schema migrations:
// - AutoMigrate (tables/columns)
// - Indexes for the RFP -> SentRfp -> Reply chain (correlation index comes from the model tag)
// - Foreign keys with cascading deletes down the chain
func AutoMigrate(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// --- AutoMigrate tables/columns/index tags (non-destructive) ---
		if err := tx.AutoMigrate(
			&models.Vendor{},
			&models.Rfp{},
			&models.SentRfp{},
			&models.Reply{},
			&models.User{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		// --- Composite / helpful indexes (idempotent) ---
		indexes := []string{
			`CREATE INDEX IF NOT EXISTS idx_sent_rfps_rfp_vendor ON sent_rfps (rfp_id, vendor_email)`,
			`CREATE INDEX IF NOT EXISTS idx_replies_sent_rfp_id_id ON replies (sent_rfp_id, id)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_idempotency_keys_key ON idempotency_keys (key)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Foreign keys (CASCADE down the chain) ---
		fks := []struct{ table, name, ddl string }{
			{"sent_rfps", "fk_sent_rfps_rfp",
				`ALTER TABLE sent_rfps ADD CONSTRAINT fk_sent_rfps_rfp FOREIGN KEY (rfp_id) REFERENCES rfps(id) ON DELETE CASCADE`},
			{"replies", "fk_replies_sent_rfp",
				`ALTER TABLE replies ADD CONSTRAINT fk_replies_sent_rfp FOREIGN KEY (sent_rfp_id) REFERENCES sent_rfps(id) ON DELETE CASCADE`},
		}
		for _, fk := range fks {
			stmt := fmt.Sprintf(`
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1
		FROM pg_constraint
		WHERE conrelid = '%s'::regclass
		  AND conname  = '%s'
	) THEN
		%s;
	END IF;
END $$;`, fk.table, fk.name, fk.ddl)
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("foreign key migration failed on %s: %w", fk.name, err)
			}
		}

		return nil
	})
}

package db

import (
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/clinicdesk/clinic-scheduler/internal/config"
	"github.com/clinicdesk/clinic-scheduler/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql.DB")
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Booking{},
		&models.AuditLog{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate")
	}

	if err := applyConstraints(db); err != nil {
		log.Fatal().Err(err).Msg("failed to apply schema constraints")
	}

	return db
}

// applyConstraints adds what AutoMigrate cannot express: role-scoped
// partial unique indexes, and the exclusion constraint that makes it
// impossible for two overlapping active bookings to commit for the same
// provider scope. Every name here must stay in sync with the write-error
// translation in the repository layer.
func applyConstraints(db *gorm.DB) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,

		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_tenant_domain
		 ON users (domain)
		 WHERE role = 'customeradmin'`,

		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_admin_email_domain
		 ON users (email, domain)
		 WHERE role = 'customeradmin'`,

		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_client_email_tenant
		 ON users (email, owning_tenant_id)
		 WHERE role = 'client'`,

		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_administrator_email
		 ON users (email)
		 WHERE role = 'administrator'`,

		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_external_identity
		 ON users (external_identity_id)
		 WHERE external_identity_id IS NOT NULL`,

		// Unassigned bookings contend for one shared pool, hence the
		// zero-uuid stand-in for NULL provider_id. int4range is half-open,
		// so back-to-back intervals do not collide. start_time/end_time are
		// zero-padded HH:MM; the split_part arithmetic keeps the expression
		// immutable, which an index expression requires.
		`DO $$
		 BEGIN
		     IF NOT EXISTS (
		         SELECT 1 FROM pg_constraint WHERE conname = 'bookings_no_overlap'
		     ) THEN
		         ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
		         EXCLUDE USING gist (
		             (COALESCE(provider_id, '00000000-0000-0000-0000-000000000000'::uuid)) WITH =,
		             appointment_date WITH =,
		             (int4range(
		                 split_part(start_time, ':', 1)::int * 60 + split_part(start_time, ':', 2)::int,
		                 split_part(end_time, ':', 1)::int * 60 + split_part(end_time, ':', 2)::int
		             )) WITH &&
		         ) WHERE (status IN ('pending', 'confirmed', 'completed'));
		     END IF;
		 END$$`,
	}

	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}

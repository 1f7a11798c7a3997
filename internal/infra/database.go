package infra

import (
	"fmt"

	"afiliados/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the GORM connection. With autoMigrate the tables are
// created or updated from the models; production databases keep their legacy
// schema and only receive the idempotent patches.
func NewDatabase(dsn string, autoMigrate bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if autoMigrate {
		if err := RunMigrations(db); err != nil {
			return nil, err
		}
		return db, nil
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}
	return db, nil
}

// RunMigrations creates every table from the models and applies the patches.
// Used by DB_AUTO_MIGRATE and by integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Socio{},
		&model.SocioBaja{},
		&model.Plan{},
		&model.Edad{},
		&model.Sistema{},
		&model.Zona{},
		&model.Usuario{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that GORM cannot express.
// Each statement is guarded so re-running on a patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Name prefix search: UPPER(nombre_cli) LIKE 'X%'
		{"idx_maecli_nombre_upper", `
DO $$ BEGIN
  IF EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'maecli')
     AND NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_maecli_nombre_upper') THEN
    CREATE INDEX idx_maecli_nombre_upper ON maecli (UPPER(nombre_cli) text_pattern_ops);
  END IF;
END $$`},
		// Age-band lookup: WHERE codpla_eda = ? ORDER BY hastae_eda
		{"idx_edades_plan_hasta", `
DO $$ BEGIN
  IF EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'edades')
     AND NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_edades_plan_hasta') THEN
    CREATE INDEX idx_edades_plan_hasta ON edades (codpla_eda, hastae_eda);
  END IF;
END $$`},
		// The system table holds a single parameter row.
		{"sistema default row", `
DO $$ BEGIN
  IF EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'sistema')
     AND NOT EXISTS (SELECT 1 FROM sistema) THEN
    INSERT INTO sistema (id) VALUES (1);
  END IF;
END $$`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}

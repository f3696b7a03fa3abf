package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/opendoorspartners/odp-backend/internal/platform/envutil"
	"github.com/opendoorspartners/odp-backend/internal/platform/logger"
	"github.com/opendoorspartners/odp-backend/internal/types"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := envutil.Str("POSTGRES_HOST", "localhost")
	postgresPort := envutil.Str("POSTGRES_PORT", "5432")
	postgresUser := envutil.Str("POSTGRES_USER", "postgres")
	postgresPassword := envutil.Str("POSTGRES_PASSWORD", "")
	postgresName := envutil.Str("POSTGRES_NAME", "odp")
	sslMode := envutil.Str("POSTGRES_SSLMODE", "disable")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		postgresUser, postgresPassword, postgresHost, postgresPort, postgresName, sslMode)

	serviceLog.Info("Connecting to Postgres...", "host", postgresHost, "db", postgresName)
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	for _, ext := range []string{"uuid-ossp", "vector"} {
		if err := gdb.Exec(fmt.Sprintf(`CREATE EXTENSION IF NOT EXISTS %q;`, ext)).Error; err != nil {
			serviceLog.Error("Failed to enable extension", "extension", ext, "error", err)
			return nil, fmt.Errorf("failed to enable %s extension: %w", ext, err)
		}
	}
	serviceLog.Info("Postgres extensions enabled", "extensions", "uuid-ossp,vector")

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.Deal{},
		&types.DealTerm{},
		&types.DealDocument{},
		&types.DealDocumentChunk{},
		&types.DealDynamicFact{},
		&types.Conversation{},
		&types.ConversationMessage{},
		&types.ToneRule{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	fks := []struct{ table, name, column, refTable, refColumn string }{
		{"odp_deal_term", "fk_odp_deal_term_deal_id", "deal_id", "odp_deal", "id"},
		{"odp_deal_document", "fk_odp_deal_document_deal_id", "deal_id", "odp_deal", "id"},
		{"odp_deal_document_chunk", "fk_odp_deal_document_chunk_doc_id", "doc_id", "odp_deal_document", "id"},
		{"odp_deal_document_chunk", "fk_odp_deal_document_chunk_deal_id", "deal_id", "odp_deal", "id"},
		{"odp_deal_dynamic_fact", "fk_odp_deal_dynamic_fact_deal_id", "deal_id", "odp_deal", "id"},
		{"odp_conversation_message", "fk_odp_conversation_message_conversation_id", "conversation_id", "odp_conversation", "id"},
		{"odp_tone_rule", "fk_odp_tone_rule_deal_id", "deal_id", "odp_deal", "id"},
	}
	for _, fk := range fks {
		stmt := fmt.Sprintf(`
			DO $$ BEGIN
				IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
					ALTER TABLE %q
					ADD CONSTRAINT %q
					FOREIGN KEY (%q)
					REFERENCES %q(%q)
					ON DELETE CASCADE;
				END IF;
			END $$;`,
			fk.name, fk.table, fk.name, fk.column, fk.refTable, fk.refColumn)
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to add %s: %w", fk.name, err)
		}
	}

	s.log.Info("Creating vector indexes...")
	vectorIndexes := []struct{ name, table string }{
		{"idx_odp_deal_document_chunk_embedding", "odp_deal_document_chunk"},
		{"idx_odp_deal_dynamic_fact_embedding", "odp_deal_dynamic_fact"},
	}
	for _, idx := range vectorIndexes {
		stmt := fmt.Sprintf(
			`CREATE INDEX IF NOT EXISTS %q ON %q USING ivfflat (embedding vector_cosine_ops);`,
			idx.name, idx.table)
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create %s: %w", idx.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}

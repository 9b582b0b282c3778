package db

import (
	"log"
	"os"

	"decisionshub/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=decisionshub port=5432 sslmode=disable"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	// Auto Migrate
	err = DB.AutoMigrate(
		&models.User{},
		&models.Decision{},
		&models.DecisionVote{},
		&models.DecisionHistory{},
		&models.Comment{},
		&models.CommentVote{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	migrateSearch()
}

// migrateSearch 创建全文检索相关的对象。
// tsv 是 STORED 生成列，AutoMigrate 表达不了，只能用原生 SQL；
// 模糊匹配依赖 pg_trgm 扩展。
func migrateSearch() {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS pg_trgm`,
		`ALTER TABLE decisions ADD COLUMN IF NOT EXISTS tsv tsvector
			GENERATED ALWAYS AS (
				setweight(to_tsvector('english', coalesce(title, '')), 'A')
				|| setweight(to_tsvector('russian', coalesce(title, '')), 'A')
				|| setweight(to_tsvector('english', coalesce(description, '')), 'B')
				|| setweight(to_tsvector('russian', coalesce(description, '')), 'B')
			) STORED`,
		`CREATE INDEX IF NOT EXISTS decisions_tsv_gin ON decisions USING gin (tsv)`,
		`CREATE INDEX IF NOT EXISTS decisions_title_trgm ON decisions USING gin (title gin_trgm_ops)`,
	}
	for _, stmt := range stmts {
		if err := DB.Exec(stmt).Error; err != nil {
			log.Fatalf("Failed to migrate search objects: %v", err)
		}
	}
	log.Println("Search migration completed")
}

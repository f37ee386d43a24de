package models

import (
	"fmt"
	"log"
	"time"

	"github.com/animehub/backend/internal/config"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB initializes the database connection
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		PrepareStmt: true,
	}

	if cfg.Env == "production" {
		gormConfig.Logger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL database
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection established")
	return db, nil
}

// InitRedis initializes Redis connection
func InitRedis(cfg *config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	log.Println("Redis connection established")
	return client
}

// Migrate runs database migrations and seeds the sentinel lore entry
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&CharacterProfile{},
		&Attire{},
		&Accessory{},
		&AccessoryLink{},
		&LoreType{},
		&LoreEntry{},
		&CharacterLoreLink{},
		&GalleryImageCategory{},
		&GalleryImage{},
	); err != nil {
		return err
	}

	return SeedSentinelLoreEntry(db)
}

// SeedSentinelLoreEntry inserts the reserved "no feat assigned" lore entry and
// the lore type row backing it. The type row must go in first because of the
// foreign key on lore_entries.lore_type_id. Raw inserts are required because
// GORM treats a zero primary key as unset.
func SeedSentinelLoreEntry(db *gorm.DB) error {
	var typeCount int64
	if err := db.Model(&LoreType{}).Where("id = ?", SentinelLoreTypeID).Count(&typeCount).Error; err != nil {
		return err
	}
	if typeCount == 0 {
		if err := db.Exec(
			"INSERT INTO lore_types (id, name) VALUES (?, ?)",
			SentinelLoreTypeID, "Unassigned",
		).Error; err != nil {
			return err
		}
	}

	var entryCount int64
	if err := db.Model(&LoreEntry{}).Where("id = ?", SentinelLoreEntryID).Count(&entryCount).Error; err != nil {
		return err
	}
	if entryCount > 0 {
		return nil
	}

	return db.Exec(
		"INSERT INTO lore_entries (id, title, lore_type_id, narrative) VALUES (?, ?, ?, ?)",
		SentinelLoreEntryID, "Unassigned", SentinelLoreTypeID, "Reserved entry: no greatest feat assigned.",
	).Error
}

package db

import (
	"log"

	"sozluk/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Open connects to postgres.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// Init opens the database, migrates it and seeds the default categories.
func Init(dsn string) {
	var err error
	DB, err = Open(dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	SeedCategories(DB)
}

// Migrate creates or updates every table.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.Author{},
		&models.AuthorBlock{},
		&models.Memento{},
		&models.Category{},
		&models.CategoryFollowing{},
		&models.Topic{},
		&models.Entry{},
		&models.EntryFavorite{},
		&models.UpvotedEntry{},
		&models.DownvotedEntry{},
		&models.Wish{},
	)
}

// SeedCategories creates the default channels on an empty database.
func SeedCategories(gdb *gorm.DB) {
	var count int64
	gdb.Model(&models.Category{}).Count(&count)
	if count > 0 {
		log.Println("Categories already seeded, skipping")
		return
	}

	categories := []models.Category{
		{Name: "spor", Slug: "spor", Description: "spor ve sporcular"},
		{Name: "bilim", Slug: "bilim", Description: "bilim ve teknoloji"},
		{Name: "sanat", Slug: "sanat", Description: "sanat, edebiyat ve sinema"},
		{Name: "gündem", Slug: "gundem", Description: "güncel olaylar"},
	}

	for _, category := range categories {
		if err := gdb.Create(&category).Error; err != nil {
			log.Printf("Failed to create category %s: %v", category.Name, err)
		}
	}
	log.Println("Initial categories created successfully")
}

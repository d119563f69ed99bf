package db

import (
	"log"

	"github.com/isaiahpere/notion-clony/internal/document"
	"github.com/isaiahpere/notion-clony/internal/user"
)

// Migrate runs database migrations
func Migrate() {
	err := AppDb.AutoMigrate(
		&user.User{},
		&document.Document{},
	)

	if err != nil {
		log.Fatal(err)
	}

	log.Println("Database schema migrated successfully")
}

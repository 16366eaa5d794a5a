package migration

import (
	"log"

	"gorm.io/gorm"

	"github.com/cheerioo/api/domain/model"
	"github.com/cheerioo/api/infrastructure/persistence/database"
)

func Up1() {
	database := database.GetDb()
	createTables(database)
}

func createTables(database *gorm.DB) {
	tables := []any{}

	tables = addNewTable(database, model.Event{}, tables)
	tables = addNewTable(database, model.EventMember{}, tables)
	tables = addNewTable(database, model.ActivityRecord{}, tables)
	tables = addNewTable(database, model.Message{}, tables)
	tables = addNewTable(database, model.Profile{}, tables)
	tables = addNewTable(database, model.AnonymousProfile{}, tables)
	tables = addNewTable(database, model.Attachment{}, tables)

	if len(tables) == 0 {
		return
	}

	err := database.Migrator().CreateTable(tables...)
	if err != nil {
		log.Printf("Error migrating: %v\n", err)
	}
	log.Println("Tables Created")
}

func addNewTable(database *gorm.DB, model any, tables []any) []any {
	if !database.Migrator().HasTable(model) {
		tables = append(tables, model)
	}
	return tables
}

package migration_0

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Run struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	Kind   string `gorm:"size:20;not null;index"`
	Status string `gorm:"size:20;not null"`

	OriginalFilename string
	Bucket           string
	ObjectKey        string

	ExitCode    sql.NullInt32
	ErrorKind   sql.NullString `gorm:"size:40"`
	Stderr      string
	RecordCount int `gorm:"default:0"`

	CreationTime   time.Time `gorm:"index"`
	CompletionTime sql.NullTime
}

func Migration(db *gorm.DB) error {
	return db.AutoMigrate(&Run{})
}

func Rollback(db *gorm.DB) error {
	return db.Migrator().DropTable(&Run{})
}

package db

import (
	"github.com/smartboard-dev/smartboard/internal/logger"
	"github.com/smartboard-dev/smartboard/internal/models"
	"github.com/smartboard-dev/smartboard/internal/store"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the database handle the stores are constructed with. The
// handle is owned by the caller: opened once at process start, closed at
// process end.
func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// Close releases the underlying connection pool.
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates any missing tables for the notice-board schema.
func Migrate(gdb *gorm.DB) error {
	tables := []interface{}{
		&models.Notice{},
		&models.User{},
		&models.Role{},
	}

	migrator := gdb.Migrator()

	for _, table := range tables {
		if !migrator.HasTable(table) {
			if err := gdb.AutoMigrate(table); err != nil {
				return err
			}
		}
	}

	return nil
}

// Seed ensures the role records exist and, when seed credentials are
// configured, that an administrator account is present. The original system
// created these rows out-of-band.
func Seed(gdb *gorm.DB, adminUser, adminPass string) error {
	roles := store.NewRoleStore(gdb)

	for _, name := range []string{models.RoleAdmin, models.RoleUser} {
		if err := roles.Ensure(name); err != nil {
			return err
		}
	}

	if adminUser == "" || adminPass == "" {
		return nil
	}

	users := store.NewUserStore(gdb)

	if _, err := users.Authenticate(adminUser, adminPass); err == nil {
		return nil
	}

	var existing models.User
	if err := gdb.Where("username = ?", adminUser).First(&existing).Error; err == nil {
		// Account exists with other credentials; leave it alone.
		return nil
	}

	if _, err := users.CreateUser(adminUser, adminPass, models.RoleAdmin); err != nil {
		return err
	}

	logger.Log.WithField("username", adminUser).Info("Seeded administrator account")
	return nil
}

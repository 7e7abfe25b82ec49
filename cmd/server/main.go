// @title           API Sirène École
// @version         1.0
// @description     Back-office de gestion des abonnements sirène pour établissements scolaires
// @termsOfService  http://swagger.io/terms/

// @contact.name   Support technique
// @contact.email  support@sirene-ecole.bj

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Saisir le token précédé de `Bearer `
package main

import (
	"fmt"
	"os"

	"github.com/Cocorine/backend-sirene-ecole/internal/app/routes"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services"
	"github.com/Cocorine/backend-sirene-ecole/internal/infrastructure/config"
	"github.com/Cocorine/backend-sirene-ecole/internal/infrastructure/database"
	"github.com/Cocorine/backend-sirene-ecole/pkg/logger"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	if err := logger.SetupLogger(); err != nil {
		fmt.Printf("logger setup failed: %v\n", err)
		os.Exit(1)
	}

	// environment variables may come from the shell instead of a .env file
	if err := godotenv.Load(); err != nil {
		logger.Warning("no .env file loaded: %v", err)
	}

	cfg := config.LoadConfig()

	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		logger.Error("database connection failed: %v", err)
		os.Exit(1)
	}
	defer pool.Close()
	db := pool.DB

	if cfg.DBMigrationMode == "drop" {
		logger.Warning("running in drop mode, every table will be dropped and recreated")
		if err := dropAndRecreateTables(db); err != nil {
			logger.Error("drop migration failed: %v", err)
			os.Exit(1)
		}
	} else {
		if err := autoMigrate(db); err != nil {
			logger.Error("migration failed: %v", err)
			os.Exit(1)
		}
	}

	ensureAdminExists(db, cfg)

	r := routes.SetupRouter(db, cfg)

	logger.Info("server listening on http://localhost:%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		logger.Error("server failed: %v", err)
		os.Exit(1)
	}
}

// autoMigrate adds new tables and columns without dropping anything
func autoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Ville{},
		&models.Ecole{},
		&models.Site{},
		&models.Sirene{},
		&models.Technicien{},
		&models.Panne{},
		&models.OrdreMission{},
		&models.MissionTechnicien{},
		&models.Intervention{},
		&models.RapportIntervention{},
		&models.Abonnement{},
		&models.Paiement{},
		&models.TokenSirene{},
		&models.OtpCode{},
		&models.Notification{},
		&models.Programmation{},
		&models.JourFerie{},
		&models.CalendrierScolaire{},
	)
	if err != nil {
		return err
	}

	logger.Info("database migration completed")
	return nil
}

// dropAndRecreateTables drops every table then migrates from scratch
func dropAndRecreateTables(db *gorm.DB) error {
	db.Exec("SET FOREIGN_KEY_CHECKS = 0")
	defer db.Exec("SET FOREIGN_KEY_CHECKS = 1")

	var tables []string
	if err := db.Raw("SHOW TABLES").Scan(&tables).Error; err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS `%s`", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return autoMigrate(db)
}

// ensureAdminExists seeds the default administrator on an empty database
func ensureAdminExists(db *gorm.DB, cfg *config.Config) {
	userService := services.NewUserService(db, cfg)
	if err := userService.SeedDefaultAdmin(); err != nil {
		logger.Warning("default admin seeding failed: %v", err)
	}
}

package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/infrastructure/config"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBCounter int64

// newTestDB opens a dedicated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:services_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
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
	))
	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		JWTSecretKey:             "test-jwt-secret",
		TokenSecretKey:           "test-token-secret",
		OtpExpirationMinutes:     5,
		OtpMaxAttempts:           3,
		SubscriptionPricePerYear: 50000,
		DefaultAdminPassword:     "Admin@123",
	}
}

// newTestNotif builds a real notification service resolving to one fixed
// admin target.
func newTestNotif(db *gorm.DB, cfg *config.Config) InterfaceNotificationService {
	return NewNotificationService(db, cfg, func() []string { return []string{"admin-test"} })
}

// seedVille inserts a city with a unique code.
func seedVille(t *testing.T, db *gorm.DB, nom string) *models.Ville {
	t.Helper()
	ville := &models.Ville{
		Nom:  nom,
		Code: fmt.Sprintf("V%d", atomic.AddInt64(&testDBCounter, 1)),
	}
	require.NoError(t, db.Create(ville).Error)
	return ville
}

// seedEcoleAvecSite inserts a school with one principal site in the city.
func seedEcoleAvecSite(t *testing.T, db *gorm.DB, villeID string) (*models.Ecole, *models.Site) {
	t.Helper()
	ecole := &models.Ecole{Nom: "École des Palmiers", TelephoneContact: "+22990000001"}
	require.NoError(t, db.Create(ecole).Error)
	site := &models.Site{
		EcoleID:       ecole.ID,
		VilleID:       villeID,
		Nom:           "Site principal",
		EstPrincipale: true,
	}
	require.NoError(t, db.Create(site).Error)
	return ecole, site
}

// seedSireneAffectee inserts a siren assigned to the site.
func seedSireneAffectee(t *testing.T, db *gorm.DB, siteID, numeroSerie string) *models.Sirene {
	t.Helper()
	sirene := &models.Sirene{
		NumeroSerie: numeroSerie,
		Statut:      models.SireneAffectee,
		SiteID:      &siteID,
	}
	require.NoError(t, db.Create(sirene).Error)
	return sirene
}

// seedTechnicien inserts a technician in the city's pool.
func seedTechnicien(t *testing.T, db *gorm.DB, villeID, nom string) *models.Technicien {
	t.Helper()
	technicien := &models.Technicien{Nom: nom, Telephone: "+22991000001", VilleID: villeID}
	require.NoError(t, db.Create(technicien).Error)
	return technicien
}

// seedAbonnement inserts a subscription in the given state for a fully wired
// school, site and siren.
func seedAbonnement(t *testing.T, db *gorm.DB, statut models.StatutAbonnement) *models.Abonnement {
	t.Helper()
	seq := atomic.AddInt64(&testDBCounter, 1)
	ville := seedVille(t, db, fmt.Sprintf("Cotonou-%d", seq))
	ecole, site := seedEcoleAvecSite(t, db, ville.ID)
	sirene := seedSireneAffectee(t, db, site.ID, fmt.Sprintf("SN-%d", seq))

	now := time.Now()
	abonnement := &models.Abonnement{
		EcoleID:          ecole.ID,
		SiteID:           site.ID,
		SireneID:         sirene.ID,
		NumeroAbonnement: fmt.Sprintf("ABO-%d", seq),
		Statut:           statut,
		DateDebut:        now,
		DateFin:          now.AddDate(1, 0, 0),
		Montant:          50000,
	}
	require.NoError(t, db.Create(abonnement).Error)
	return abonnement
}

// fakeCommandService records published siren commands instead of talking MQTT.
type fakeCommandService struct {
	activations map[string]int
	schedules   map[string][]models.Programmation
}

func newFakeCommandService() *fakeCommandService {
	return &fakeCommandService{
		activations: make(map[string]int),
		schedules:   make(map[string][]models.Programmation),
	}
}

func (f *fakeCommandService) Connect() error { return nil }
func (f *fakeCommandService) Disconnect()    {}

func (f *fakeCommandService) PublishActivation(numeroSerie string, dureeSecondes int) error {
	f.activations[numeroSerie] = dureeSecondes
	return nil
}

func (f *fakeCommandService) PublishSchedule(numeroSerie string, programmations []models.Programmation) error {
	f.schedules[numeroSerie] = programmations
	return nil
}

func (f *fakeCommandService) PublishStatusRequest(numeroSerie string) error { return nil }

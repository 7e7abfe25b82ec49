package services

import (
	"testing"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newEcoleFixture(t *testing.T) (InterfaceEcoleService, *gorm.DB, *models.Ville) {
	t.Helper()
	db := newTestDB(t)
	cfg := newTestConfig()
	svc := NewEcoleService(db, cfg, nil, newTestNotif(db, cfg))
	ville := seedVille(t, db, "Parakou")
	return svc, db, ville
}

func seedSireneDisponible(t *testing.T, db *gorm.DB, numeroSerie string) *models.Sirene {
	t.Helper()
	sirene := &models.Sirene{
		NumeroSerie: numeroSerie,
		Modele:      "SX-200",
		Statut:      models.SireneDisponible,
	}
	require.NoError(t, db.Create(sirene).Error)
	return sirene
}

func TestInscrireEcoleComplete(t *testing.T) {
	svc, db, ville := newEcoleFixture(t)
	sirene := seedSireneDisponible(t, db, "SN-INS-001")

	result, err := svc.Inscrire(InscriptionData{
		Nom:              "Complexe Scolaire Les Baobabs",
		Adresse:          "Quartier Zongo",
		TelephoneContact: "+22997000001",
		EmailContact:     "contact@baobabs.bj",
		Sites: []SiteData{
			{Nom: "Site principal", VilleID: ville.ID, EstPrincipale: true, NumeroSerieSirene: "SN-INS-001"},
			{Nom: "Annexe", VilleID: ville.ID},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.MotDePasseTemporaire)
	require.Equal(t, "+22997000001", result.NomUtilisateur)

	// one subscription, for the site that declared a siren
	require.Len(t, result.Abonnements, 1)
	require.Equal(t, models.AbonnementEnAttente, result.Abonnements[0].Statut)
	require.Equal(t, sirene.ID, result.Abonnements[0].SireneID)

	// the siren is now assigned
	var affectee models.Sirene
	require.NoError(t, db.First(&affectee, "id = ?", sirene.ID).Error)
	require.Equal(t, models.SireneAffectee, affectee.Statut)
	require.NotNil(t, affectee.SiteID)

	// the school account authenticates with the temporary password
	var user models.User
	require.NoError(t, db.First(&user, "nom_utilisateur = ?", "+22997000001").Error)
	require.Equal(t, models.RoleEcole, user.Role)
	require.NotNil(t, user.AccountID)
	require.Equal(t, result.Ecole.ID, *user.AccountID)
	require.NotEqual(t, result.MotDePasseTemporaire, user.MotDePasse)

	sites, err := svc.GetSites(result.Ecole.ID)
	require.NoError(t, err)
	require.Len(t, sites, 2)
}

func TestInscrireExigeUnSitePrincipal(t *testing.T) {
	svc, _, ville := newEcoleFixture(t)

	// none
	_, err := svc.Inscrire(InscriptionData{
		Nom:              "École sans principal",
		TelephoneContact: "+22997000002",
		Sites:            []SiteData{{Nom: "Site A", VilleID: ville.ID}},
	})
	require.ErrorIs(t, err, ErrValidation)

	// two
	_, err = svc.Inscrire(InscriptionData{
		Nom:              "École double principal",
		TelephoneContact: "+22997000003",
		Sites: []SiteData{
			{Nom: "Site A", VilleID: ville.ID, EstPrincipale: true},
			{Nom: "Site B", VilleID: ville.ID, EstPrincipale: true},
		},
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestInscrireSireneIndisponible(t *testing.T) {
	svc, db, ville := newEcoleFixture(t)
	_, site := seedEcoleAvecSite(t, db, ville.ID)
	seedSireneAffectee(t, db, site.ID, "SN-INS-PRISE")

	_, err := svc.Inscrire(InscriptionData{
		Nom:              "École trop tard",
		TelephoneContact: "+22997000004",
		Sites: []SiteData{
			{Nom: "Site principal", VilleID: ville.ID, EstPrincipale: true, NumeroSerieSirene: "SN-INS-PRISE"},
		},
	})
	require.ErrorIs(t, err, ErrConflict)

	// the failed registration left nothing behind
	var ecoles int64
	require.NoError(t, db.Model(&models.Ecole{}).Where("nom = ?", "École trop tard").Count(&ecoles).Error)
	require.Zero(t, ecoles)
}

func TestInscrireSireneInconnue(t *testing.T) {
	svc, _, ville := newEcoleFixture(t)

	_, err := svc.Inscrire(InscriptionData{
		Nom:              "École optimiste",
		TelephoneContact: "+22997000005",
		Sites: []SiteData{
			{Nom: "Site principal", VilleID: ville.ID, EstPrincipale: true, NumeroSerieSirene: "SN-FANTOME"},
		},
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestEcoleDeleteRefuseAvecAbonnementActif(t *testing.T) {
	svc, db, _ := newEcoleFixture(t)
	abonnement := seedAbonnement(t, db, models.AbonnementActif)

	err := svc.Delete(abonnement.EcoleID)
	require.ErrorIs(t, err, ErrConflict)

	// once the subscription is no longer active the school can go
	require.NoError(t, db.Model(&models.Abonnement{}).Where("id = ?", abonnement.ID).
		Update("statut", models.AbonnementAnnule).Error)
	require.NoError(t, svc.Delete(abonnement.EcoleID))

	_, err = svc.GetByID(abonnement.EcoleID)
	require.ErrorIs(t, err, ErrNotFound)
}

package services

import (
	"testing"
	"time"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type programmationFixture struct {
	db      *gorm.DB
	svc     InterfaceProgrammationService
	feries  InterfaceJourFerieService
	command *fakeCommandService
	sirene  *models.Sirene
}

func newProgrammationFixture(t *testing.T) *programmationFixture {
	t.Helper()
	db := newTestDB(t)
	cfg := newTestConfig()
	feries := NewJourFerieService(db, cfg)
	command := newFakeCommandService()
	svc := NewProgrammationService(db, cfg, feries, command)

	ville := seedVille(t, db, "Cotonou")
	_, site := seedEcoleAvecSite(t, db, ville.ID)
	sirene := seedSireneAffectee(t, db, site.ID, "SN-PROG-001")

	return &programmationFixture{db: db, svc: svc, feries: feries, command: command, sirene: sirene}
}

func (f *programmationFixture) slot(t *testing.T, nom string, jours []string, feriesInclus bool) *models.Programmation {
	t.Helper()
	p := &models.Programmation{
		SireneID:           f.sirene.ID,
		Nom:                nom,
		HeureDeclenchement: "07:30",
		DureeSecondes:      45,
		JoursSemaine:       datatypes.NewJSONSlice(jours),
		JoursFeriesInclus:  feriesInclus,
		Actif:              true,
	}
	require.NoError(t, f.svc.Create(p))
	return p
}

func TestProgrammationCreateValidations(t *testing.T) {
	f := newProgrammationFixture(t)
	jours := datatypes.NewJSONSlice([]string{"Monday"})

	cas := []struct {
		nom string
		p   models.Programmation
	}{
		{"nom manquant", models.Programmation{SireneID: f.sirene.ID, HeureDeclenchement: "07:30", DureeSecondes: 30, JoursSemaine: jours}},
		{"heure invalide", models.Programmation{SireneID: f.sirene.ID, Nom: "Rentrée", HeureDeclenchement: "25:99", DureeSecondes: 30, JoursSemaine: jours}},
		{"durée nulle", models.Programmation{SireneID: f.sirene.ID, Nom: "Rentrée", HeureDeclenchement: "07:30", DureeSecondes: 0, JoursSemaine: jours}},
		{"durée excessive", models.Programmation{SireneID: f.sirene.ID, Nom: "Rentrée", HeureDeclenchement: "07:30", DureeSecondes: 601, JoursSemaine: jours}},
		{"aucun jour", models.Programmation{SireneID: f.sirene.ID, Nom: "Rentrée", HeureDeclenchement: "07:30", DureeSecondes: 30}},
		{"jour invalide", models.Programmation{SireneID: f.sirene.ID, Nom: "Rentrée", HeureDeclenchement: "07:30", DureeSecondes: 30, JoursSemaine: datatypes.NewJSONSlice([]string{"Lundi"})}},
	}
	for _, c := range cas {
		p := c.p
		require.ErrorIs(t, f.svc.Create(&p), ErrValidation, c.nom)
	}

	inconnu := models.Programmation{SireneID: "n-existe-pas", Nom: "Rentrée", HeureDeclenchement: "07:30", DureeSecondes: 30, JoursSemaine: jours}
	require.ErrorIs(t, f.svc.Create(&inconnu), ErrNotFound)
}

func TestProgrammationEffectiveForDate(t *testing.T) {
	f := newProgrammationFixture(t)

	// 2026-09-07 is a Monday
	lundi := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	f.slot(t, "Entrée des classes", []string{"Monday", "Tuesday"}, false)
	f.slot(t, "Cours du samedi", []string{"Saturday"}, false)

	effective, err := f.svc.EffectiveForDate(f.sirene.ID, lundi)
	require.NoError(t, err)
	require.Len(t, effective, 1)
	require.Equal(t, "Entrée des classes", effective[0].Nom)

	samedi := lundi.AddDate(0, 0, 5)
	effective, err = f.svc.EffectiveForDate(f.sirene.ID, samedi)
	require.NoError(t, err)
	require.Len(t, effective, 1)
	require.Equal(t, "Cours du samedi", effective[0].Nom)
}

func TestProgrammationJourFerieCoupeLesCreneaux(t *testing.T) {
	f := newProgrammationFixture(t)

	lundi := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	f.slot(t, "Entrée des classes", []string{"Monday"}, false)
	alarme := f.slot(t, "Essai mensuel", []string{"Monday"}, true)

	require.NoError(t, f.feries.Create(&models.JourFerie{
		Nom:  "Fête nationale",
		Date: lundi,
		Type: models.JourFerieFixe,
	}))

	// only the holiday-inclusive slot survives
	effective, err := f.svc.EffectiveForDate(f.sirene.ID, lundi)
	require.NoError(t, err)
	require.Len(t, effective, 1)
	require.Equal(t, alarme.ID, effective[0].ID)
}

func TestProgrammationJourFerieRecurrent(t *testing.T) {
	f := newProgrammationFixture(t)

	f.slot(t, "Entrée des classes", []string{"Friday"}, false)
	require.NoError(t, f.feries.Create(&models.JourFerie{
		Nom:  "Fête du travail",
		Date: time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC),
		Type: models.JourFerieRecurrent,
	}))

	// 2026-05-01 is a Friday, silenced by the recurring holiday
	effective, err := f.svc.EffectiveForDate(f.sirene.ID, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Empty(t, effective)

	// the following Friday fires normally
	effective, err = f.svc.EffectiveForDate(f.sirene.ID, time.Date(2026, 5, 8, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, effective, 1)
}

func TestProgrammationFenetreDeValidite(t *testing.T) {
	f := newProgrammationFixture(t)

	debut := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	fin := time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC)
	p := f.slot(t, "Période d'examens", []string{"Monday"}, false)
	_, err := f.svc.Update(p.ID, map[string]interface{}{"date_debut": debut, "date_fin": fin})
	require.NoError(t, err)

	// Mondays: 2026-09-28 before, 2026-10-05 inside, 2026-11-02 after
	avant, err := f.svc.EffectiveForDate(f.sirene.ID, time.Date(2026, 9, 28, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Empty(t, avant)

	pendant, err := f.svc.EffectiveForDate(f.sirene.ID, time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, pendant, 1)

	apres, err := f.svc.EffectiveForDate(f.sirene.ID, time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Empty(t, apres)
}

func TestProgrammationPushToSirene(t *testing.T) {
	f := newProgrammationFixture(t)

	aujourdhui := time.Now().Weekday().String()
	f.slot(t, "Entrée des classes", []string{aujourdhui}, true)

	require.NoError(t, f.svc.PushToSirene(f.sirene.ID))
	require.Len(t, f.command.schedules[f.sirene.NumeroSerie], 1)

	require.ErrorIs(t, f.svc.PushToSirene("n-existe-pas"), ErrNotFound)
}

func TestProgrammationUpdateHeureInvalide(t *testing.T) {
	f := newProgrammationFixture(t)
	p := f.slot(t, "Entrée des classes", []string{"Monday"}, false)

	_, err := f.svc.Update(p.ID, map[string]interface{}{"heure_declenchement": "7h30"})
	require.ErrorIs(t, err, ErrValidation)

	maj, err := f.svc.Update(p.ID, map[string]interface{}{"heure_declenchement": "08:15"})
	require.NoError(t, err)
	require.Equal(t, "08:15", maj.HeureDeclenchement)
}

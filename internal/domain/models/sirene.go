package models

// StatutSirene represents the assignment status of a siren device.
type StatutSirene string

const (
	SireneDisponible StatutSirene = "DISPONIBLE"
	SireneAffectee   StatutSirene = "AFFECTEE"
	SireneEnPanne    StatutSirene = "EN_PANNE"
)

// Sirene is a physical siren device of the fleet.
type Sirene struct {
	BaseModel
	NumeroSerie string       `gorm:"type:varchar(50);unique;not null" json:"numero_serie"`
	Modele      string       `gorm:"type:varchar(100)" json:"modele"`
	Statut      StatutSirene `gorm:"type:varchar(20);default:'DISPONIBLE'" json:"statut"`
	SiteID      *string      `gorm:"type:varchar(36);index" json:"site_id,omitempty"`

	Site           *Site           `gorm:"foreignKey:SiteID" json:"site,omitempty"`
	Pannes         []Panne         `gorm:"foreignKey:SireneID" json:"pannes,omitempty"`
	Programmations []Programmation `gorm:"foreignKey:SireneID" json:"programmations,omitempty"`
}

func (Sirene) TableName() string {
	return "sirenes"
}

// Technicien is a field technician attached to a city's pool.
type Technicien struct {
	BaseModel
	Nom        string `gorm:"type:varchar(150);not null" json:"nom"`
	Telephone  string `gorm:"type:varchar(30);not null" json:"telephone"`
	Email      string `gorm:"type:varchar(150)" json:"email"`
	VilleID    string `gorm:"type:varchar(36);not null;index" json:"ville_id"`
	Specialite string `gorm:"type:varchar(100)" json:"specialite"`

	Ville *Ville `gorm:"foreignKey:VilleID" json:"ville,omitempty"`
}

func (Technicien) TableName() string {
	return "techniciens"
}

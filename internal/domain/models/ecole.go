package models

// Ecole is a registered school. A school owns one or more sites, each site
// carrying at most one sirène.
type Ecole struct {
	BaseModel
	Nom              string `gorm:"type:varchar(150);not null" json:"nom"`
	Adresse          string `gorm:"type:varchar(255)" json:"adresse"`
	TelephoneContact string `gorm:"type:varchar(30);not null" json:"telephone_contact"`
	EmailContact     string `gorm:"type:varchar(150)" json:"email_contact"`

	Sites       []Site       `gorm:"foreignKey:EcoleID" json:"sites,omitempty"`
	Abonnements []Abonnement `gorm:"foreignKey:EcoleID" json:"abonnements,omitempty"`
}

func (Ecole) TableName() string {
	return "ecoles"
}

// Site is a physical location of a school.
type Site struct {
	BaseModel
	EcoleID       string `gorm:"type:varchar(36);not null;index" json:"ecole_id"`
	VilleID       string `gorm:"type:varchar(36);not null;index" json:"ville_id"`
	Nom           string `gorm:"type:varchar(150);not null" json:"nom"`
	Adresse       string `gorm:"type:varchar(255)" json:"adresse"`
	EstPrincipale bool   `gorm:"default:false" json:"est_principale"`

	Ecole  *Ecole  `gorm:"foreignKey:EcoleID" json:"ecole,omitempty"`
	Ville  *Ville  `gorm:"foreignKey:VilleID" json:"ville,omitempty"`
	Sirene *Sirene `gorm:"foreignKey:SiteID" json:"sirene,omitempty"`
}

func (Site) TableName() string {
	return "sites"
}

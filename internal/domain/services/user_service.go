package services

import (
	"errors"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/infrastructure/config"
	"github.com/Cocorine/backend-sirene-ecole/pkg/logger"
	"github.com/Cocorine/backend-sirene-ecole/pkg/utils"

	"gorm.io/gorm"
)

// InterfaceUserService defines the account management interface
type InterfaceUserService interface {
	CreateAdmin(nomUtilisateur, motDePasse, telephone, email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	GetAll(page, pageSize int, role string) ([]models.User, int64, error)
	AdminIDs() []string
	SeedDefaultAdmin() error
	Delete(id string) error
}

// UserService manages accounts
type UserService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewUserService creates a new account service
func NewUserService(db *gorm.DB, cfg *config.Config) InterfaceUserService {
	return &UserService{DB: db, Config: cfg}
}

// 1. CreateAdmin opens an admin account
func (s *UserService) CreateAdmin(nomUtilisateur, motDePasse, telephone, email string) (*models.User, error) {
	if nomUtilisateur == "" {
		return nil, Validationf("un nom d'utilisateur est requis")
	}
	if len(motDePasse) < 8 {
		return nil, Validationf("le mot de passe doit contenir au moins 8 caractères")
	}
	var count int64
	if err := s.DB.Model(&models.User{}).Where("nom_utilisateur = ?", nomUtilisateur).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, Conflictf("le nom d'utilisateur %s est déjà pris", nomUtilisateur)
	}
	hashed, err := utils.HashPassword(motDePasse)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		NomUtilisateur: nomUtilisateur,
		MotDePasse:     hashed,
		Role:           models.RoleAdmin,
		Telephone:      telephone,
		Email:          email,
	}
	if err := s.DB.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// 2. GetByID loads an account
func (s *UserService) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("utilisateur %s", id)
		}
		return nil, err
	}
	return &user, nil
}

// 3. GetAll lists accounts with pagination and optional role filter
func (s *UserService) GetAll(page, pageSize int, role string) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := s.DB.Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * pageSize
	if err := query.Limit(pageSize).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// 4. AdminIDs returns the IDs of every admin account. Used as the
// notification target resolver.
func (s *UserService) AdminIDs() []string {
	var ids []string
	if err := s.DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).
		Pluck("id", &ids).Error; err != nil {
		logger.Warning("admin id lookup failed: %v", err)
		return nil
	}
	return ids
}

// 5. SeedDefaultAdmin creates the bootstrap admin account when none exists
func (s *UserService) SeedDefaultAdmin() error {
	var count int64
	if err := s.DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err := s.CreateAdmin("admin", s.Config.DefaultAdminPassword, "", "")
	if err == nil {
		logger.Info("default admin account seeded")
	}
	return err
}

// 6. Delete soft-deletes an account, keeping at least one admin
func (s *UserService) Delete(id string) error {
	user, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if user.Role == models.RoleAdmin {
		var admins int64
		if err := s.DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
			return err
		}
		if admins <= 1 {
			return Conflictf("impossible de supprimer le dernier administrateur")
		}
	}
	return s.DB.Delete(user).Error
}

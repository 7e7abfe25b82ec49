package container

import (
	"sync"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services"
	"github.com/Cocorine/backend-sirene-ecole/internal/infrastructure/config"
	"github.com/Cocorine/backend-sirene-ecole/pkg/logger"

	"gorm.io/gorm"
)

// ServiceContainer wires every service with its dependencies.
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config

	// base services
	jwtService   services.InterfaceJWTService
	redisService services.InterfaceRedisService
	smsService   services.InterfaceSmsService
	otpService   services.InterfaceOtpService
	userService  services.InterfaceUserService

	// device channel
	sirenCommandService services.InterfaceSirenCommandService

	// business services
	notificationService       services.InterfaceNotificationService
	villeService              services.InterfaceVilleService
	ecoleService              services.InterfaceEcoleService
	sireneService             services.InterfaceSireneService
	technicienService         services.InterfaceTechnicienService
	panneService              services.InterfacePanneService
	ordreMissionService       services.InterfaceOrdreMissionService
	candidatureService        services.InterfaceCandidatureService
	interventionService       services.InterfaceInterventionService
	abonnementService         services.InterfaceAbonnementService
	paiementService           services.InterfacePaiementService
	tokenSireneService        services.InterfaceTokenSireneService
	qrCodeService             services.InterfaceQrCodeService
	programmationService      services.InterfaceProgrammationService
	jourFerieService          services.InterfaceJourFerieService
	calendrierScolaireService services.InterfaceCalendrierScolaireService

	mu sync.RWMutex
}

// NewServiceContainer creates and wires the full service graph
func NewServiceContainer(db *gorm.DB, cfg *config.Config) *ServiceContainer {
	if db == nil {
		panic("nil database connection")
	}
	if cfg == nil {
		panic("nil config")
	}

	container := &ServiceContainer{db: db, config: cfg}
	container.initializeServices()
	return container
}

func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// base services
	c.redisService = services.NewRedisService(c.config)
	if err := c.redisService.Ping(); err != nil {
		logger.Warning("redis unreachable, falling back to database reads: %v", err)
	}
	c.smsService = services.NewSmsService(c.config)
	c.otpService = services.NewOtpService(c.db, c.config, c.smsService)
	c.jwtService = services.NewJWTService(c.db, c.config, c.otpService)
	c.userService = services.NewUserService(c.db, c.config)

	// notification targets: admin accounts resolved through the user service
	c.notificationService = services.NewNotificationService(c.db, c.config, c.userService.AdminIDs)

	// device command channel, connected lazily
	c.sirenCommandService = services.NewSirenCommandService(c.config)
	if c.config.MQTTBrokerURL != "" {
		if err := c.sirenCommandService.Connect(); err != nil {
			logger.Warning("mqtt broker unreachable: %v", err)
		}
	}

	// business services
	c.villeService = services.NewVilleService(c.db, c.config)
	c.sireneService = services.NewSireneService(c.db, c.config)
	c.technicienService = services.NewTechnicienService(c.db, c.config)
	c.qrCodeService = services.NewQrCodeService(c.db, c.config)
	c.ecoleService = services.NewEcoleService(c.db, c.config, c.qrCodeService, c.notificationService)
	c.panneService = services.NewPanneService(c.db, c.config, c.notificationService)
	c.ordreMissionService = services.NewOrdreMissionService(c.db, c.config)
	c.candidatureService = services.NewCandidatureService(c.db, c.config, c.notificationService)
	c.interventionService = services.NewInterventionService(c.db, c.config)
	c.tokenSireneService = services.NewTokenSireneService(c.db, c.config, c.redisService)
	c.abonnementService = services.NewAbonnementService(c.db, c.config, c.tokenSireneService, c.qrCodeService, c.notificationService)
	c.paiementService = services.NewPaiementService(c.db, c.config, c.abonnementService, c.notificationService)
	c.jourFerieService = services.NewJourFerieService(c.db, c.config)
	c.calendrierScolaireService = services.NewCalendrierScolaireService(c.db, c.config)
	c.programmationService = services.NewProgrammationService(c.db, c.config, c.jourFerieService, c.sirenCommandService)
}

// GetService returns the service registered under the given name
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "sms":
		return c.smsService
	case "otp":
		return c.otpService
	case "user":
		return c.userService
	case "notification":
		return c.notificationService
	case "siren_command":
		return c.sirenCommandService
	case "ville":
		return c.villeService
	case "ecole":
		return c.ecoleService
	case "sirene":
		return c.sireneService
	case "technicien":
		return c.technicienService
	case "panne":
		return c.panneService
	case "ordre_mission":
		return c.ordreMissionService
	case "candidature":
		return c.candidatureService
	case "intervention":
		return c.interventionService
	case "abonnement":
		return c.abonnementService
	case "paiement":
		return c.paiementService
	case "token_sirene":
		return c.tokenSireneService
	case "qrcode":
		return c.qrCodeService
	case "programmation":
		return c.programmationService
	case "jour_ferie":
		return c.jourFerieService
	case "calendrier_scolaire":
		return c.calendrierScolaireService
	default:
		return nil
	}
}

// GetDB returns the database handle
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// GetConfig returns the loaded configuration
func (c *ServiceContainer) GetConfig() *config.Config {
	return c.config
}

package routes

import (
	"time"

	"github.com/Cocorine/backend-sirene-ecole/internal/app/controllers"
	"github.com/Cocorine/backend-sirene-ecole/internal/app/middleware"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services/container"
	"github.com/Cocorine/backend-sirene-ecole/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter builds the service container and returns the configured engine
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", cfg.FrontendURL)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	serviceContainer := container.NewServiceContainer(db, cfg)
	middleware.InitAuthMiddleware(serviceContainer.GetService("jwt").(services.InterfaceJWTService))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes wires every API route onto the engine
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	api := r.Group("/api")
	registerPublicRoutes(api, container)
	registerEcoleRoutes(api, container)
	registerTechnicienRoutes(api, container)
	registerAdminRoutes(api, container)
}

// registerPublicRoutes registers the routes reachable without a session
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	api.GET("/ping", controllers.HandleHealthFunc(container, "ping"))
	api.GET("/health", controllers.HandleHealthFunc(container, "check"))

	// landing page of printed subscription QR codes
	api.GET("/qr/abonnements/:id", controllers.HandleAbonnementFunc(container, "redirigerQr"))

	// authentication, throttled against brute force
	authLimiter := middleware.RateLimiter(middleware.RateLimiterConfig{
		Rate:      1,
		Burst:     5,
		LimitType: "combined",
	})
	auth := api.Group("/auth", authLimiter)
	auth.POST("/login", controllers.HandleAuthFunc(container, "login"))
	auth.POST("/otp", controllers.HandleAuthFunc(container, "requestOtp"))
	auth.POST("/login-otp", controllers.HandleAuthFunc(container, "loginWithOtp"))

	// siren firmware token verification
	api.POST("/tokens/scan", middleware.IPRateLimiter(5, 20), controllers.HandleTokenFunc(container, "scanner"))
}

// registerEcoleRoutes registers the routes open to school accounts
func registerEcoleRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	ecole := api.Group("/", middleware.AuthenticateEcole())

	ecole.POST("/pannes", controllers.HandlePanneFunc(container, "declarerPanne"))
	ecole.GET("/abonnements/:id", controllers.HandleAbonnementFunc(container, "getAbonnement"))
	ecole.GET("/abonnements/:id/token", controllers.HandleAbonnementFunc(container, "getToken"))
	ecole.POST("/paiements", controllers.HandlePaiementFunc(container, "traiterPaiement"))
}

// registerTechnicienRoutes registers the routes open to technician accounts
func registerTechnicienRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	tech := api.Group("/", middleware.AuthenticateTechnicien())

	// candidacies for open mission orders
	tech.POST("/candidatures", controllers.HandleCandidatureFunc(container, "soumettre"))
	tech.PUT("/candidatures/:id/retirer", controllers.HandleCandidatureFunc(container, "retirer"))

	// repair execution
	tech.PUT("/interventions/:id/demarrer", controllers.HandleInterventionFunc(container, "demarrer"))
	tech.POST("/interventions/:id/rapport", controllers.HandleInterventionFunc(container, "redigerRapport"))
	tech.GET("/interventions/:id", controllers.HandleInterventionFunc(container, "getIntervention"))

	// mission orders are browsable by technicians
	tech.GET("/ordres-mission", controllers.HandleOrdreMissionFunc(container, "getOrdres"))
	tech.GET("/ordres-mission/:id", controllers.HandleOrdreMissionFunc(container, "getOrdre"))
}

// registerAdminRoutes registers the back-office routes
func registerAdminRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	admin := api.Group("/", middleware.AuthenticateAdmin())

	// session management applies to every authenticated role
	session := api.Group("/", middleware.Authentication())
	session.PUT("/auth/password", controllers.HandleAuthFunc(container, "changePassword"))
	session.GET("/notifications", controllers.HandleNotificationFunc(container, "getMesNotifications"))
	session.PUT("/notifications/:id/lue", controllers.HandleNotificationFunc(container, "marquerLue"))

	// read caches on the heavy listings
	listCache := middleware.Cache(middleware.CacheConfig{Expiration: 30 * time.Second})

	// schools
	admin.POST("/ecoles", controllers.HandleEcoleFunc(container, "inscrire"))
	admin.GET("/ecoles", listCache, controllers.HandleEcoleFunc(container, "getEcoles"))
	admin.GET("/ecoles/:id", controllers.HandleEcoleFunc(container, "getEcole"))
	admin.GET("/ecoles/:id/sites", controllers.HandleEcoleFunc(container, "getSites"))
	admin.PUT("/ecoles/:id", controllers.HandleEcoleFunc(container, "updateEcole"))
	admin.DELETE("/ecoles/:id", controllers.HandleEcoleFunc(container, "deleteEcole"))

	// sirens
	admin.GET("/sirenes", listCache, controllers.HandleSireneFunc(container, "getSirenes"))
	admin.GET("/sirenes/disponibles", controllers.HandleSireneFunc(container, "getDisponibles"))
	admin.GET("/sirenes/numero-serie/:numero_serie", controllers.HandleSireneFunc(container, "getByNumeroSerie"))
	admin.GET("/sirenes/:id", controllers.HandleSireneFunc(container, "getSirene"))
	admin.POST("/sirenes", controllers.HandleSireneFunc(container, "createSirene"))
	admin.POST("/sirenes/:id/affecter", controllers.HandleSireneFunc(container, "affecterSirene"))
	admin.POST("/sirenes/:id/activer", controllers.HandleSireneFunc(container, "activer"))
	admin.PUT("/sirenes/:id", controllers.HandleSireneFunc(container, "updateSirene"))
	admin.DELETE("/sirenes/:id", controllers.HandleSireneFunc(container, "deleteSirene"))

	// cities
	admin.GET("/villes", controllers.HandleVilleFunc(container, "getVilles"))
	admin.POST("/villes", controllers.HandleVilleFunc(container, "createVille"))
	admin.DELETE("/villes/:id", controllers.HandleVilleFunc(container, "deleteVille"))

	// technicians
	admin.GET("/techniciens", controllers.HandleTechnicienFunc(container, "getTechniciens"))
	admin.GET("/techniciens/:id", controllers.HandleTechnicienFunc(container, "getTechnicien"))
	admin.POST("/techniciens", controllers.HandleTechnicienFunc(container, "createTechnicien"))
	admin.PUT("/techniciens/:id", controllers.HandleTechnicienFunc(container, "updateTechnicien"))
	admin.DELETE("/techniciens/:id", controllers.HandleTechnicienFunc(container, "deleteTechnicien"))

	// breakdown reports
	admin.GET("/pannes", controllers.HandlePanneFunc(container, "getPannes"))
	admin.GET("/pannes/:id", controllers.HandlePanneFunc(container, "getPanne"))
	admin.PUT("/pannes/:id/valider", controllers.HandlePanneFunc(container, "validerPanne"))
	admin.PUT("/pannes/:id/cloturer", controllers.HandlePanneFunc(container, "cloturerPanne"))

	// mission orders and candidacies
	admin.GET("/ordres-mission/:id/candidatures", controllers.HandleOrdreMissionFunc(container, "getCandidatures"))
	admin.PUT("/ordres-mission/:id/cloturer-candidatures", controllers.HandleOrdreMissionFunc(container, "cloturerCandidatures"))
	admin.PUT("/ordres-mission/:id/rouvrir-candidatures", controllers.HandleOrdreMissionFunc(container, "rouvrirCandidatures"))
	admin.PUT("/ordres-mission/:id/cloturer", controllers.HandleOrdreMissionFunc(container, "cloturerOrdre"))
	admin.PUT("/ordres-mission/:id/commentaire", controllers.HandleOrdreMissionFunc(container, "updateCommentaire"))
	admin.PUT("/candidatures/:id/accepter", controllers.HandleCandidatureFunc(container, "accepter"))
	admin.PUT("/candidatures/:id/refuser", controllers.HandleCandidatureFunc(container, "refuser"))

	// interventions review
	admin.GET("/interventions", controllers.HandleInterventionFunc(container, "getInterventions"))
	admin.PUT("/interventions/:id/note", controllers.HandleInterventionFunc(container, "noterIntervention"))
	admin.PUT("/interventions/:id/rapport/note", controllers.HandleInterventionFunc(container, "noterRapport"))

	// subscriptions
	admin.GET("/abonnements", listCache, controllers.HandleAbonnementFunc(container, "getAbonnements"))
	admin.GET("/abonnements/statistiques", controllers.HandleAbonnementFunc(container, "getStatistiques"))
	admin.GET("/abonnements/expirants", controllers.HandleAbonnementFunc(container, "getExpirants"))
	admin.POST("/abonnements", controllers.HandleAbonnementFunc(container, "createAbonnement"))
	admin.POST("/abonnements/:id/renouveler", controllers.HandleAbonnementFunc(container, "renouveler"))
	admin.PUT("/abonnements/:id/suspendre", controllers.HandleAbonnementFunc(container, "suspendre"))
	admin.PUT("/abonnements/:id/reactiver", controllers.HandleAbonnementFunc(container, "reactiver"))
	admin.PUT("/abonnements/:id/annuler", controllers.HandleAbonnementFunc(container, "annuler"))

	// payments
	admin.GET("/paiements", controllers.HandlePaiementFunc(container, "getPaiements"))
	admin.GET("/paiements/:id", controllers.HandlePaiementFunc(container, "getPaiement"))
	admin.PUT("/paiements/:id/valider", controllers.HandlePaiementFunc(container, "validerPaiement"))

	// siren schedules
	admin.GET("/programmations/sirene/:sirene_id", controllers.HandleProgrammationFunc(container, "getProgrammations"))
	admin.GET("/programmations/sirene/:sirene_id/effectives", controllers.HandleProgrammationFunc(container, "getEffectives"))
	admin.POST("/programmations/sirene/:sirene_id/pousser", controllers.HandleProgrammationFunc(container, "pousserProgrammation"))
	admin.POST("/programmations", controllers.HandleProgrammationFunc(container, "createProgrammation"))
	admin.PUT("/programmations/:id", controllers.HandleProgrammationFunc(container, "updateProgrammation"))
	admin.DELETE("/programmations/:id", controllers.HandleProgrammationFunc(container, "deleteProgrammation"))

	// calendar
	admin.GET("/jours-feries", controllers.HandleCalendrierFunc(container, "getJoursFeries"))
	admin.POST("/jours-feries", controllers.HandleCalendrierFunc(container, "createJourFerie"))
	admin.DELETE("/jours-feries/:id", controllers.HandleCalendrierFunc(container, "deleteJourFerie"))
	admin.GET("/calendrier-scolaire", controllers.HandleCalendrierFunc(container, "getPeriodes"))
	admin.POST("/calendrier-scolaire", controllers.HandleCalendrierFunc(container, "createPeriode"))
	admin.DELETE("/calendrier-scolaire/:id", controllers.HandleCalendrierFunc(container, "deletePeriode"))

	// accounts
	admin.GET("/users", controllers.HandleUserFunc(container, "getUsers"))
	admin.GET("/users/:id", controllers.HandleUserFunc(container, "getUser"))
	admin.POST("/users/admins", controllers.HandleUserFunc(container, "createAdmin"))
	admin.DELETE("/users/:id", controllers.HandleUserFunc(container, "deleteUser"))

	// scheduled maintenance sweeps
	admin.POST("/jobs/abonnements/expirer", controllers.HandleJobsFunc(container, "expirerAbonnements"))
	admin.POST("/jobs/abonnements/rappels", controllers.HandleJobsFunc(container, "rappelsExpiration"))
	admin.POST("/jobs/abonnements/auto-renouvellement", controllers.HandleJobsFunc(container, "autoRenouvellement"))
	admin.POST("/jobs/otp/nettoyage", controllers.HandleJobsFunc(container, "nettoyerOtp"))
}

package code

// HTTP status codes used by the response layer.
const (
	StatusOK                  = 200
	StatusCreated             = 201
	StatusBadRequest          = 400
	StatusUnauthorized        = 401
	StatusForbidden           = 403
	StatusNotFound            = 404
	StatusConflict            = 409
	StatusUnprocessable       = 422
	StatusTooManyRequests     = 429
	StatusInternalServerError = 500
)

// Common error codes (100xxx).
const (
	// ErrSuccess - 200: success.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: unknown error.
	ErrUnknown
	// ErrBind - 400: request body binding error.
	ErrBind
	// ErrValidation - 422: request validation error.
	ErrValidation
	// ErrTokenInvalid - 401: invalid authentication token.
	ErrTokenInvalid
	// ErrForbidden - 403: insufficient permissions.
	ErrForbidden
	// ErrTooManyRequests - 429: rate limited.
	ErrTooManyRequests
)

// Auth and user error codes (101xxx).
const (
	// ErrUserNotFound - 404: user not found.
	ErrUserNotFound int = iota + 101000
	// ErrUserAlreadyExist - 409: user already exists.
	ErrUserAlreadyExist
	// ErrPasswordIncorrect - 401: wrong credentials.
	ErrPasswordIncorrect
	// ErrOtpInvalid - 401: invalid OTP code.
	ErrOtpInvalid
	// ErrOtpExpired - 401: expired OTP code.
	ErrOtpExpired
)

// Ecole and sirène error codes (102xxx).
const (
	// ErrEcoleNotFound - 404: school not found.
	ErrEcoleNotFound int = iota + 102000
	// ErrSireneNotFound - 404: siren not found.
	ErrSireneNotFound
	// ErrSireneUnavailable - 409: siren not available for assignment.
	ErrSireneUnavailable
	// ErrSiteNotFound - 404: site not found.
	ErrSiteNotFound
	// ErrTechnicienNotFound - 404: technician not found.
	ErrTechnicienNotFound
)

// Panne and mission error codes (103xxx).
const (
	// ErrPanneNotFound - 404: fault report not found.
	ErrPanneNotFound int = iota + 103000
	// ErrOrdreMissionNotFound - 404: mission order not found.
	ErrOrdreMissionNotFound
	// ErrCandidatureNotFound - 404: candidacy not found.
	ErrCandidatureNotFound
	// ErrInterventionNotFound - 404: intervention not found.
	ErrInterventionNotFound
	// ErrRapportNotFound - 404: report not found.
	ErrRapportNotFound
	// ErrTransitionInvalide - 409: illegal state transition.
	ErrTransitionInvalide
	// ErrCandidatureDupliquee - 409: technician already applied.
	ErrCandidatureDupliquee
	// ErrCandidaturesCloturees - 409: candidacy window closed.
	ErrCandidaturesCloturees
	// ErrOrdreComplet - 409: mission order already has its technicians.
	ErrOrdreComplet
	// ErrMotifRequis - 422: a reason is required for this action.
	ErrMotifRequis
)

// Abonnement and paiement error codes (104xxx).
const (
	// ErrAbonnementNotFound - 404: subscription not found.
	ErrAbonnementNotFound int = iota + 104000
	// ErrAbonnementDejaActif - 409: subscription already active.
	ErrAbonnementDejaActif
	// ErrPaiementNotFound - 404: payment not found.
	ErrPaiementNotFound
	// ErrPaiementDejaValide - 409: payment already validated.
	ErrPaiementDejaValide
	// ErrTokenSireneNotFound - 404: siren token not found.
	ErrTokenSireneNotFound
)

// Database error codes (105xxx).
const (
	// ErrDatabase - 500: database error.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404: record not found.
	ErrRecordNotFound
)

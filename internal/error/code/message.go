package code

// Error code to message mapping.
var codeMessageMap = map[int]string{
	ErrSuccess:         "Succès",
	ErrUnknown:         "Erreur interne",
	ErrBind:            "Corps de requête invalide",
	ErrValidation:      "Paramètres de requête invalides",
	ErrTokenInvalid:    "Jeton d'authentification invalide",
	ErrForbidden:       "Permissions insuffisantes",
	ErrTooManyRequests: "Trop de requêtes",

	ErrUserNotFound:      "Utilisateur non trouvé",
	ErrUserAlreadyExist:  "Utilisateur déjà existant",
	ErrPasswordIncorrect: "Identifiants incorrects",
	ErrOtpInvalid:        "Code OTP invalide",
	ErrOtpExpired:        "Code OTP expiré",

	ErrEcoleNotFound:      "École non trouvée",
	ErrSireneNotFound:     "Sirène non trouvée",
	ErrSireneUnavailable:  "Sirène non disponible",
	ErrSiteNotFound:       "Site non trouvé",
	ErrTechnicienNotFound: "Technicien non trouvé",

	ErrPanneNotFound:         "Panne non trouvée",
	ErrOrdreMissionNotFound:  "Ordre de mission non trouvé",
	ErrCandidatureNotFound:   "Candidature non trouvée",
	ErrInterventionNotFound:  "Intervention non trouvée",
	ErrRapportNotFound:       "Rapport non trouvé",
	ErrTransitionInvalide:    "Transition d'état non autorisée",
	ErrCandidatureDupliquee:  "Candidature déjà soumise pour cet ordre de mission",
	ErrCandidaturesCloturees: "Les candidatures sont clôturées",
	ErrOrdreComplet:          "L'ordre de mission a déjà ses techniciens",
	ErrMotifRequis:           "Un motif est requis",

	ErrAbonnementNotFound:  "Abonnement non trouvé",
	ErrAbonnementDejaActif: "Abonnement déjà actif",
	ErrPaiementNotFound:    "Paiement non trouvé",
	ErrPaiementDejaValide:  "Paiement déjà validé",
	ErrTokenSireneNotFound: "Token sirène non trouvé",

	ErrDatabase:       "Erreur base de données",
	ErrRecordNotFound: "Enregistrement non trouvé",
}

// Error code to HTTP status mapping.
var codeStatusMap = map[int]int{
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusUnprocessable,
	ErrTokenInvalid:    StatusUnauthorized,
	ErrForbidden:       StatusForbidden,
	ErrTooManyRequests: StatusTooManyRequests,

	ErrUserNotFound:      StatusNotFound,
	ErrUserAlreadyExist:  StatusConflict,
	ErrPasswordIncorrect: StatusUnauthorized,
	ErrOtpInvalid:        StatusUnauthorized,
	ErrOtpExpired:        StatusUnauthorized,

	ErrEcoleNotFound:      StatusNotFound,
	ErrSireneNotFound:     StatusNotFound,
	ErrSireneUnavailable:  StatusConflict,
	ErrSiteNotFound:       StatusNotFound,
	ErrTechnicienNotFound: StatusNotFound,

	ErrPanneNotFound:         StatusNotFound,
	ErrOrdreMissionNotFound:  StatusNotFound,
	ErrCandidatureNotFound:   StatusNotFound,
	ErrInterventionNotFound:  StatusNotFound,
	ErrRapportNotFound:       StatusNotFound,
	ErrTransitionInvalide:    StatusConflict,
	ErrCandidatureDupliquee:  StatusConflict,
	ErrCandidaturesCloturees: StatusConflict,
	ErrOrdreComplet:          StatusConflict,
	ErrMotifRequis:           StatusUnprocessable,

	ErrAbonnementNotFound:  StatusNotFound,
	ErrAbonnementDejaActif: StatusConflict,
	ErrPaiementNotFound:    StatusNotFound,
	ErrPaiementDejaValide:  StatusConflict,
	ErrTokenSireneNotFound: StatusNotFound,

	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,
}

// GetMessage returns the message bound to a business code.
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "Erreur inconnue"
}

// GetStatus returns the HTTP status bound to a business code.
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}

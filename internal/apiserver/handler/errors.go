package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/amoylab/lokal/internal/ai"
	"github.com/amoylab/lokal/internal/auth"
	"github.com/amoylab/lokal/internal/auth/jwt"
	"github.com/amoylab/lokal/internal/catalog"
	"github.com/amoylab/lokal/internal/contract"
	"github.com/amoylab/lokal/internal/database"
	"github.com/amoylab/lokal/internal/i18n"
	"github.com/amoylab/lokal/internal/ledger"
)

// respondError answers with the localized message for err. notFound and
// failed are used for store misses and for anything without a dedicated
// message; the raw error is attached to the context for the error log.
func respondError(c *gin.Context, err error, notFound, failed *i18n.ErrorWithCode) {
	var coded *i18n.ErrorWithCode
	switch {
	case errors.As(err, &coded):
		i18n.RespondWithError(c, coded)
		return
	case errors.Is(err, database.ErrNotFound), errors.Is(err, ledger.ErrDealNotFound):
		if notFound == nil {
			notFound = i18n.ErrNotFound
		}
		i18n.RespondWithError(c, notFound)
		return
	case errors.Is(err, database.ErrPermissionDenied):
		coded = i18n.ErrorBusinessPermission
	case errors.Is(err, database.ErrHasDependents):
		coded = i18n.ErrorBusinessHasDeals
	case errors.Is(err, catalog.ErrInvalidCategory):
		coded = i18n.ErrorCategoryInvalid
	case errors.Is(err, catalog.ErrNameRequired), errors.Is(err, contract.ErrInvalidCommission):
		coded = i18n.ErrBadRequest
	case errors.Is(err, contract.ErrInvalidLeadStatus):
		coded = i18n.ErrorLeadStatusInvalid
	case errors.Is(err, auth.ErrInvalidCredentials):
		coded = i18n.ErrorInvalidCredentials
	case errors.Is(err, auth.ErrEmailExists):
		coded = i18n.ErrorEmailExists
	case errors.Is(err, auth.ErrInvalidEmail):
		coded = i18n.ErrorInvalidEmail
	case errors.Is(err, auth.ErrPasswordTooShort):
		coded = i18n.ErrorPasswordTooShort.WithParam("Min", auth.MinPasswordLength)
	case errors.Is(err, auth.ErrInvalidState):
		coded = i18n.ErrorOAuthStateInvalid
	case errors.Is(err, jwt.ErrInvalidToken), errors.Is(err, jwt.ErrExpiredToken):
		coded = i18n.ErrUnauthorized
	default:
		if failed == nil {
			failed = i18n.ErrInternalServer
		}
		_ = c.Error(err)
		i18n.RespondWithError(c, failed)
		return
	}
	i18n.RespondWithError(c, coded)
}

// aiError maps the outcomes a strict AI route answers as errors
func aiError(outcome ai.Outcome) *i18n.ErrorWithCode {
	switch outcome {
	case ai.OutcomePermissionDenied:
		return i18n.ErrorAIPermissionDenied
	case ai.OutcomeConfiguration:
		return i18n.ErrorAIConfiguration
	default:
		return nil
	}
}

package i18n

// Common errors
var (
	ErrNotFound       = NewErrorWithCode("ErrorResourceNotFound", ErrorNotFound)
	ErrUnauthorized   = NewErrorWithCode("ErrorUnauthorized", ErrorUnauthorized)
	ErrForbidden      = NewErrorWithCode("ErrorForbidden", ErrorForbidden)
	ErrBadRequest     = NewErrorWithCode("ErrorBadRequest", ErrorBadRequest)
	ErrInternalServer = NewErrorWithCode("ErrorInternalServer", ErrorInternalServer)
)

// Account related errors
var (
	ErrorInvalidCredentials       = NewErrorWithCode("ErrorInvalidCredentials", ErrorUnauthorized)
	ErrorEmailExists              = NewErrorWithCode("ErrorEmailExists", ErrorConflict)
	ErrorInvalidEmail             = NewErrorWithCode("ErrorInvalidEmail", ErrorBadRequest)
	ErrorPasswordTooShort         = NewErrorWithCode("ErrorPasswordTooShort", ErrorBadRequest)
	ErrorOAuthProviderUnsupported = NewErrorWithCode("ErrorOAuthProviderUnsupported", ErrorNotFound)
	ErrorOAuthStateInvalid        = NewErrorWithCode("ErrorOAuthStateInvalid", ErrorBadRequest)
	ErrorOAuthExchangeFailed      = NewErrorWithCode("ErrorOAuthExchangeFailed", ErrorBadGateway)
	ErrorAdminRequired            = NewErrorWithCode("ErrorAdminRequired", ErrorForbidden)
	ErrorProfileUpdateFailed      = NewErrorWithCode("ErrorProfileUpdateFailed", ErrorInternalServer)
)

// Catalog related errors
var (
	ErrorBusinessPermission   = NewErrorWithCode("ErrorBusinessPermission", ErrorForbidden)
	ErrorBusinessCreateFailed = NewErrorWithCode("ErrorBusinessCreateFailed", ErrorInternalServer)
	ErrorBusinessHasDeals     = NewErrorWithCode("ErrorBusinessHasDeals", ErrorConflict)
	ErrorBusinessNotFound     = NewErrorWithCode("ErrorBusinessNotFound", ErrorNotFound)
	ErrorCategoryInvalid      = NewErrorWithCode("ErrorCategoryInvalid", ErrorBadRequest)
	ErrorDealNotFound         = NewErrorWithCode("ErrorDealNotFound", ErrorNotFound)
	ErrorDealCreateFailed     = NewErrorWithCode("ErrorDealCreateFailed", ErrorInternalServer)
	ErrorRedeemFailed         = NewErrorWithCode("ErrorRedeemFailed", ErrorInternalServer)
)

// Contract related errors
var (
	ErrorContractCreateFailed = NewErrorWithCode("ErrorContractCreateFailed", ErrorInternalServer)
	ErrorUsageNotFound        = NewErrorWithCode("ErrorUsageNotFound", ErrorNotFound)
	ErrorLeadStatusInvalid    = NewErrorWithCode("ErrorLeadStatusInvalid", ErrorBadRequest)
	ErrorLeadNotFound         = NewErrorWithCode("ErrorLeadNotFound", ErrorNotFound)
)

// AI gateway errors
var (
	ErrorAIPermissionDenied = NewErrorWithCode("ErrorAIPermissionDenied", ErrorForbidden)
	ErrorAIConfiguration    = NewErrorWithCode("ErrorAIConfiguration", ErrorServiceUnavailable)
	ErrorAIFailed           = NewErrorWithCode("ErrorAIFailed", ErrorBadGateway)
)

// Success message ids
const (
	SuccessSignUp          = "SuccessSignUp"
	SuccessSignIn          = "SuccessSignIn"
	SuccessSignOut         = "SuccessSignOut"
	SuccessSession         = "SuccessSession"
	SuccessProfile         = "SuccessProfile"
	SuccessProfileUpdated  = "SuccessProfileUpdated"
	SuccessDeals           = "SuccessDeals"
	SuccessSavedDeals      = "SuccessSavedDeals"
	SuccessDealSaveToggled = "SuccessDealSaveToggled"
	SuccessDealRedeemed    = "SuccessDealRedeemed"
	SuccessRedemptionCount = "SuccessRedemptionCount"
	SuccessBusinesses      = "SuccessBusinesses"
	SuccessBusinessCreated = "SuccessBusinessCreated"
	SuccessBusinessUpdated = "SuccessBusinessUpdated"
	SuccessBusinessDeleted = "SuccessBusinessDeleted"
	SuccessDealCreated     = "SuccessDealCreated"
	SuccessDealUpdated     = "SuccessDealUpdated"
	SuccessDealDeleted     = "SuccessDealDeleted"
	SuccessContracts       = "SuccessContracts"
	SuccessContractCreated = "SuccessContractCreated"
	SuccessUsageDetails    = "SuccessUsageDetails"
	SuccessUsagePaid       = "SuccessUsagePaid"
	SuccessLeads           = "SuccessLeads"
	SuccessLeadUpdated     = "SuccessLeadUpdated"
	SuccessAIResult        = "SuccessAIResult"
	SuccessHistory         = "SuccessHistory"
	SuccessHistoryCleared  = "SuccessHistoryCleared"
	SuccessSettings        = "SuccessSettings"
	SuccessSettingsUpdated = "SuccessSettingsUpdated"
)

package cnst

// Keys stored on the gin context
const (
	CtxClaims   = "claims"
	CtxIdentity = "identity"
	CtxProfile  = "profile"
	CtxTraceID  = "trace_id"
)

// Headers
const (
	XLang    = "X-Lang"
	XTraceID = "X-Trace-Id"
)

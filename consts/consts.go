package consts

// AuthorizationKey Authorization header key
const AuthorizationKey string = "Authorization"

// BearerScheme Authorization scheme of access tokens
const BearerScheme string = "Bearer"

// TraceKey request trace id header, read and written
const TraceKey string = "X-Trace-ID"

// UserKey authenticated user id
const UserKey string = "socialhub-uid"

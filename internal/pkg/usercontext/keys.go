package usercontext

// Session and Locals keys shared between the auth controller and the
// request middlewares.
const (
	AuthKey          = "authenticated"
	KeyUserID        = "user_id"
	KeyUsername      = "username"
	KeyIsAdmin       = "isAdmin"
	KeyFromProtected = "from_protected"
	KeyUserContext   = "USER_CONTEXT"
)

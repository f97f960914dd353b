package constants

// Static route constants
const (
	HealthRoute   = "/health"
	RegisterRoute = "/register"
	LoginRoute    = "/login"
	LogoutRoute   = "/logout"
	APIRoute      = "/api"
)

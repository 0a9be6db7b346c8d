package auth

// Identity is the verified caller identity decoded from a bearer credential.
type Identity struct {
	AppuserID string
	Email     string
}

// SignUpRequest contains registration data supplied by callers.
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LogInRequest contains login credentials.
type LogInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

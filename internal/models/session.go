package models

// AuthMethod records how the active session was established
type AuthMethod string

const (
	AuthMethodLogin AuthMethod = "login"
	AuthMethodToken AuthMethod = "token"
)

// SessionRecord is the single persisted session/config record. It holds the
// raw credential and is never handed to callers directly; they get a
// SessionState projection instead.
type SessionRecord struct {
	APIURL      string     `json:"api_url"`
	AccessToken string     `json:"access_token"`
	AuthMethod  AuthMethod `json:"auth_method"`
	UserID      string     `json:"user_id,omitempty"`
	UserName    string     `json:"user_name,omitempty"`
	UserEmail   string     `json:"user_email,omitempty"`
	Created     string     `json:"created_at"`
	Updated     string     `json:"updated_at"`
}

// SessionState is the redacted view of the active session. HasToken stands in
// for the credential value, which is deliberately absent.
type SessionState struct {
	Authenticated bool   `json:"authenticated"`
	HasToken      bool   `json:"has_token"`
	APIURL        string `json:"api_url,omitempty"`
	UserID        string `json:"user_id,omitempty"`
	UserName      string `json:"user_name,omitempty"`
}

// LoginUser is the identity block returned by the login endpoint
type LoginUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginResult reports the outcome of a login attempt. Login reports rather
// than raises, so a rejected credential is a false Success, not an error.
type LoginResult struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	User    *LoginUser `json:"user,omitempty"`
}

// ConnectionResult reports the outcome of a connection test
type ConnectionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

package port

// Identity is the caller established from a verified identity token.
type Identity struct {
	UserID string
	Email  string
}

// TokenVerifier validates identity tokens issued by the external identity service.
type TokenVerifier interface {
	Verify(token string) (*Identity, error)
}

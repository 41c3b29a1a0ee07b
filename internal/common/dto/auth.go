package dto

// CredentialsRequest is the body of sign-up and sign-in
type CredentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// OAuthURLResponse carries the consent page a client should open
type OAuthURLResponse struct {
	Provider string `json:"provider"`
	URL      string `json:"url"`
}

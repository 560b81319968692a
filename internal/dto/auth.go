package dto

type MagicLinkRequest struct {
	Email       string `json:"email"`
	RedirectURL string `json:"redirectUrl"`
}

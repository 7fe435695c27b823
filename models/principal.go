package models

// Principal is the authenticated caller of a private route.
type Principal struct {
	Subject string `json:"subject"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

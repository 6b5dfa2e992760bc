package domain

// User is the signed-in person as reported by the backend.
type User struct {
	Name      string `json:"name,omitempty"`
	GivenName string `json:"given_name,omitempty"`
	Email     string `json:"email"`
	Phone     ID     `json:"phone,omitempty"` // the backend sends a number
}

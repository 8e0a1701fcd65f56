package models

// User est l'identité exposée par le contexte d'auth. Seul l'ID conditionne
// les opérations panier.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (u *User) SignedIn() bool {
	return u != nil && u.ID != ""
}

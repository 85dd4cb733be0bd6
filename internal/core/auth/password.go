package auth

import "golang.org/x/crypto/bcrypt"

// CredentialVerifier hashes raw passwords and checks them against stored
// bcrypt hashes.
type CredentialVerifier struct {
	cost int
}

func NewCredentialVerifier(cost int) *CredentialVerifier {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &CredentialVerifier{cost: cost}
}

// Hash returns the bcrypt hash of password.
func (v *CredentialVerifier) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), v.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Matches reports whether password matches the stored hash.
func (v *CredentialVerifier) Matches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

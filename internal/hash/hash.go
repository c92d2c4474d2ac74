package hash

import "golang.org/x/crypto/bcrypt"

// Scheme is the credential verification strategy for a principal store.
type Scheme interface {
	Hash(password string) (string, error)
	Check(stored, password string) bool
}

type Bcrypt struct{}

func (Bcrypt) Hash(password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashbytes), nil
}

func (Bcrypt) Check(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// Plaintext exists only for legacy admin rows created before hashing was
// enforced. Nothing in cmd/server wires it.
type Plaintext struct{}

func (Plaintext) Hash(password string) (string, error) { return password, nil }

func (Plaintext) Check(stored, password string) bool { return stored == password }

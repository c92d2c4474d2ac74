package auth

import "net/mail"

// Credential format rules: the username is an email address of at least five
// characters, the password at least five characters.
func validUsername(username string) bool {
	if len(username) < 5 {
		return false
	}
	addr, err := mail.ParseAddress(username)
	return err == nil && addr.Address == username
}

func validPassword(password string) bool {
	return len(password) >= 5
}

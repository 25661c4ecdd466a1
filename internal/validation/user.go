package validation

import "regexp"

const (
	maxNameLen  = 100
	maxEmailLen = 200
	maxBioLen   = 500
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]{3,30}$`)
	passwordPattern = regexp.MustCompile(`^[a-zA-Z0-9]{3,30}$`)
)

// RegistrationPayload carries the submitted user-registration fields.
type RegistrationPayload struct {
	Name           string
	Email          string
	Username       string
	Password       string
	RepeatPassword string
	TOSAccepted    bool
	Bio            string
}

// ValidateRegistration checks a submitted registration payload.
func ValidateRegistration(p RegistrationPayload) error {
	var v violations

	v.checkText("name", p.Name, true, maxNameLen)

	switch {
	case p.Email == "":
		v.add("email is required")
	case len(p.Email) > maxEmailLen:
		v.add("email must be at most 200 characters")
	case !emailPattern.MatchString(p.Email):
		v.add("email must be a valid email")
	}

	switch {
	case p.Username == "":
		v.add("username is required")
	case !usernamePattern.MatchString(p.Username):
		v.add("username must be 3 to 30 alphanumeric characters")
	}

	switch {
	case p.Password == "":
		v.add("password is required")
	case !passwordPattern.MatchString(p.Password):
		v.add("password must be 3 to 30 alphanumeric characters")
	}
	if p.RepeatPassword != p.Password {
		v.add("repeat password must match password")
	}

	if !p.TOSAccepted {
		v.add("you must accept the terms of service")
	}

	v.checkText("bio", p.Bio, false, maxBioLen)

	return v.err()
}

// ValidateBio checks a submitted profile biography on its own.
func ValidateBio(bio string) error {
	var v violations
	v.checkText("bio", bio, false, maxBioLen)
	return v.err()
}

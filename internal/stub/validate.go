package stub

import "regexp"

// Validation mirrors the production API's rules; messages follow its
// "The <field> ..." phrasing so clients can display either server's output.

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type fieldErrors map[string][]string

func (fe fieldErrors) add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func (fe fieldErrors) any() bool {
	return len(fe) > 0
}

func validEmail(s string) bool {
	return emailRegex.MatchString(s)
}

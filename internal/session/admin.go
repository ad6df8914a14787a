package session

import (
	"strings"

	"loyaltyclub/internal/model"
)

// Admins is the allow-list of administrator email addresses.
type Admins map[string]struct{}

// ParseAdmins reads a comma-separated list. Blank entries are ignored, so an
// empty list grants nobody admin rights.
func ParseAdmins(list string) Admins {
	admins := make(Admins)
	for _, email := range strings.Split(list, ",") {
		if email = strings.TrimSpace(email); email != "" {
			admins[email] = struct{}{}
		}
	}
	return admins
}

func (a Admins) IsAdmin(u *model.User) bool {
	if u == nil {
		return false
	}
	_, ok := a[u.Email]
	return ok
}

package auth

import "github.com/yukikurage/albaranes-api/internal/models"

// Principal is the authenticated identity behind a request.
type Principal struct {
	UserID  uint64
	Company *string
}

// PrincipalFor builds the principal of a loaded user. Blank company names are dropped.
func PrincipalFor(user models.User) Principal {
	p := Principal{UserID: user.ID}
	if user.CompanyName != nil && *user.CompanyName != "" {
		company := *user.CompanyName
		p.Company = &company
	}
	return p
}

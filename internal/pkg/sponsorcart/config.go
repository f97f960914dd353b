package sponsorcart

import "strings"

// Local body type codes.
const (
	TypePanchayat    = "P"
	TypeMunicipality = "M"
	TypeCorporation  = "C"
	TypeAll          = "All"
)

// StateName is the fixed singleton root of the ward hierarchy.
const StateName = "Kerala"

const (
	// RatePerExecutive is the monthly rate in rupees for one sponsored executive.
	RatePerExecutive = 15000

	// GSTRate applied on the cart subtotal.
	GSTRate = 0.18

	// WalletBonusMultiplier applied on the order total.
	WalletBonusMultiplier = 3

	// MinSponsorshipMonths is the shortest allowed sponsorship duration.
	MinSponsorshipMonths = 1

	// MaxCartItems bounds the number of entries in one cart.
	MaxCartItems = 100
)

// maxExecutives bounds concurrent sponsor slots per local body type. One
// table applies everywhere: Panchayat 1, Municipality 3, Corporation 5.
var maxExecutives = map[string]int{
	TypePanchayat:    1,
	TypeMunicipality: 3,
	TypeCorporation:  5,
}

// MaxExecutivesFor returns the executive-slot bound for a local body type.
// TypeAll yields the largest bound across all types.
func MaxExecutivesFor(localBodyType string) int {
	code := NormalizeType(localBodyType)
	if code == TypeAll {
		max := 0
		for _, n := range maxExecutives {
			if n > max {
				max = n
			}
		}
		return max
	}
	if n, ok := maxExecutives[code]; ok {
		return n
	}
	return maxExecutives[TypePanchayat]
}

// NormalizeType maps free-form local body type strings ("Panchayath",
// "municipality", "C") to the one-letter code.
func NormalizeType(localBodyType string) string {
	t := strings.TrimSpace(localBodyType)
	if t == "" {
		return TypePanchayat
	}
	if strings.EqualFold(t, TypeAll) {
		return TypeAll
	}
	normalized := strings.ToLower(t)
	switch {
	case strings.Contains(normalized, "panchay"):
		return TypePanchayat
	case strings.Contains(normalized, "munic"):
		return TypeMunicipality
	case strings.Contains(normalized, "corp"):
		return TypeCorporation
	}
	return strings.ToUpper(t[:1])
}

// TypeLabel returns the display label for a local body type code.
func TypeLabel(localBodyType string) string {
	switch NormalizeType(localBodyType) {
	case TypePanchayat:
		return "Panchayat"
	case TypeMunicipality:
		return "Municipality"
	case TypeCorporation:
		return "Corporation"
	case TypeAll:
		return "All Types"
	}
	return localBodyType
}

package selector

import "strings"

var countryCodes = map[string]string{
	"nigeria":       "NG",
	"kenya":         "KE",
	"south africa":  "ZA",
	"ghana":         "GH",
	"senegal":       "SN",
	"ivory coast":   "CI",
	"cote d'ivoire": "CI",
	"cameroon":      "CM",
	"mali":          "ML",
	"burkina faso":  "BF",
	"burundi":       "BI",
	"drc":           "CD",
	"congo":         "CD",
	"ethiopia":      "ET",
	"tanzania":      "TZ",
	"uganda":        "UG",
	"rwanda":        "RW",
	"benin":         "BJ",
	"togo":          "TG",
	"niger":         "NE",
	"guinea":        "GN",
	"pan-african":   "AF",
}

// CountryCode maps a country name to its code. Already-valid codes
// pass through unchanged.
func CountryCode(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if code, ok := countryCodes[n]; ok {
		return code
	}
	if len(name) == 2 {
		return strings.ToUpper(name)
	}
	return ""
}

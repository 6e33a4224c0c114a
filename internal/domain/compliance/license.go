package compliance

import (
	"strings"
)

// licenseLabels maps normalized license codes to their display labels
var licenseLabels = map[string]string{
	"cc-by":         "CC BY",
	"cc-by-sa":      "CC BY-SA",
	"cc-by-nd":      "CC BY-ND",
	"cc-by-nc":      "CC BY-NC",
	"cc-by-nc-sa":   "CC BY-NC-SA",
	"cc-by-nc-nd":   "CC BY-NC-ND",
	"cc0":           "CC0",
	"public-domain": "Public Domain",
}

// FormatLicense returns the canonical display label for a license code.
// Unknown codes are passed through cleaned up rather than rejected so a
// new code from upstream still renders something readable.
func FormatLicense(code string) string {
	normalized := NormalizeLicenseCode(code)
	if normalized == "" {
		return ""
	}
	if label, ok := licenseLabels[normalized]; ok {
		return label
	}
	return strings.ToUpper(strings.ReplaceAll(normalized, "-", " "))
}

// NormalizeLicenseCode lowercases and trims a license code, collapsing
// separators to single hyphens.
func NormalizeLicenseCode(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	code = strings.NewReplacer(" ", "-", "_", "-").Replace(code)
	for strings.Contains(code, "--") {
		code = strings.ReplaceAll(code, "--", "-")
	}
	return strings.Trim(code, "-")
}

// IsOpenLicense reports whether the code permits unrestricted reuse
func IsOpenLicense(code string) bool {
	switch NormalizeLicenseCode(code) {
	case "cc-by", "cc0", "public-domain":
		return true
	}
	return false
}

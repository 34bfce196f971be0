package utils

const maskKeep = 4

// MaskSecret renders a token safe to print: the first few characters
// followed by stars, or all stars when the value is too short to survive
// truncation.
func MaskSecret(secret string) string {
	if len(secret) <= maskKeep {
		return "*****"
	}
	return secret[:maskKeep] + "*****"
}

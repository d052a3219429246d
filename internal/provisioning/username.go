package provisioning

import "strings"

// NormalizeUsername derives a valid Atlas database username from user input.
// Atlas database usernames cannot contain "@" or be email addresses: for
// email-form input the local part is kept, stripped of every non-alphanumeric
// character. Anything else passes through unchanged.
func NormalizeUsername(input string) string {
	if !strings.Contains(input, "@") {
		return input
	}

	local := strings.SplitN(input, "@", 2)[0]
	var b strings.Builder
	for _, r := range local {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

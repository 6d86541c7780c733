package receipt

import (
	"regexp"
	"strings"
)

// sensitiveFlags are flag names whose values are always redacted before a
// receipt is written. Both single-dash and double-dash variants match.
var sensitiveFlags = map[string]bool{
	"token":        true,
	"key":          true,
	"password":     true,
	"secret":       true,
	"api-key":      true,
	"apikey":       true,
	"auth":         true,
	"credential":   true,
	"credentials":  true,
	"bearer":       true,
	"access-token": true,
}

// sensitivePrefixes are value prefixes indicating secrets.
var sensitivePrefixes = []string{
	"ghp_",        // GitHub PAT
	"github_pat_", // GitHub fine-grained PAT
	"AKIA",        // AWS access key
	"xoxb-",       // Slack bot
	"ya29.",       // Google OAuth
	"AIza",        // Google API key
}

// jwtRegex matches JWT-like values. Heuristic; dotted strings of the right
// shape will be redacted too.
var jwtRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}$`)

const redactedValue = "[REDACTED]"

// RedactArgs sanitizes CLI arguments by redacting sensitive values.
// Returns the redacted args and whether any redaction was applied.
func RedactArgs(args []string) ([]string, bool) {
	if len(args) == 0 {
		return args, false
	}

	out := make([]string, len(args))
	redacted := false
	redactNext := false

	for i, arg := range args {
		if redactNext {
			out[i] = redactedValue
			redacted = true
			redactNext = false
			continue
		}

		if flag, value, hasValue := splitFlag(arg); flag != "" && sensitiveFlags[flag] {
			if hasValue {
				out[i] = arg[:len(arg)-len(value)] + redactedValue
				redacted = true
			} else {
				out[i] = arg
				redactNext = true
			}
			continue
		}

		if looksSecret(arg) {
			out[i] = redactedValue
			redacted = true
			continue
		}

		out[i] = arg
	}

	return out, redacted
}

// splitFlag parses --name=value, --name, -name forms. Returns the bare
// flag name, the value when inline, and whether an inline value exists.
func splitFlag(arg string) (name, value string, hasValue bool) {
	if !strings.HasPrefix(arg, "-") {
		return "", "", false
	}
	trimmed := strings.TrimLeft(arg, "-")
	if eq := strings.Index(trimmed, "="); eq >= 0 {
		return strings.ToLower(trimmed[:eq]), trimmed[eq+1:], true
	}
	return strings.ToLower(trimmed), "", false
}

func looksSecret(v string) bool {
	for _, prefix := range sensitivePrefixes {
		if strings.HasPrefix(v, prefix) {
			return true
		}
	}
	return jwtRegex.MatchString(v)
}

package secrets

import "regexp"

// pattern pairs a detector with its report text. Critical patterns are the
// ones that fail the run; the rest are advisory.
type pattern struct {
	re          *regexp.Regexp
	description string
	critical    bool
}

// sensitivePatterns flag likely hardcoded credentials. Placeholder-looking
// values are filtered afterwards by safeValuePatterns, since RE2 has no
// lookahead.
var sensitivePatterns = []pattern{
	{regexp.MustCompile(`(?i)password\s*[:=]\s*["'][a-zA-Z0-9!@#$%^&*()_+=-]{12,}["']`), "possible hardcoded password", false},
	{regexp.MustCompile(`(?i)secret\s*[:=]\s*["'][a-zA-Z0-9!@#$%^&*()_+=-]{24,}["']`), "possible hardcoded secret", false},
	{regexp.MustCompile(`(?i)api[_-]?key\s*[:=]\s*["'][a-zA-Z0-9-]{32,}["']`), "possible hardcoded API key", false},
	{regexp.MustCompile(`[Bb]earer\s+[a-zA-Z0-9._-]{40,}`), "possible hardcoded bearer token", false},
	{regexp.MustCompile(`-----BEGIN\s+(RSA\s+)?PRIVATE\s+KEY-----`), "private key detected", true},
	{regexp.MustCompile(`mongodb://[^:]+:[^@]{8,}@`), "MongoDB connection string with credentials", false},
	{regexp.MustCompile(`postgres://[^:]+:[^@]{8,}@`), "PostgreSQL connection string with credentials", false},
	{regexp.MustCompile(`mysql://[^:]+:[^@]{8,}@`), "MySQL connection string with credentials", false},
	{regexp.MustCompile(`AKIA[0-9A-Z]{16}`), "AWS Access Key ID detected", true},
	{regexp.MustCompile(`ghp_[a-zA-Z0-9]{36}`), "GitHub Personal Access Token detected", true},
	{regexp.MustCompile(`github_pat_[a-zA-Z0-9_]{22,}`), "GitHub PAT detected", true},
}

// safeValuePatterns mark a line as a reference or placeholder, not an
// actual secret.
var safeValuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\{[^}]*\}`),    // environment variable: ${VAR}
	regexp.MustCompile(`\{\{[^}]*\}\}`),  // template: {{var}}
	regexp.MustCompile(`\{#[^}]*\}`),     // gateway EL expression: {#...}
	regexp.MustCompile(`(?i)secretRef`),  // k8s secret reference
	regexp.MustCompile(`(?i)PLACEHOLDER`),
	regexp.MustCompile(`(?i)SEALED`),
	regexp.MustCompile(`(?i)CHANGE_ME`),
	regexp.MustCompile(`(?i)REPLACE`),
	regexp.MustCompile(`(?i)TODO`),
	regexp.MustCompile(`(?i)changeme`),
	regexp.MustCompile(`\.svc\.cluster\.local`),
	regexp.MustCompile(`(?i)^\s*[a-zA-Z0-9_-]+:\s*https?://\S+$`), // plain URLs
}

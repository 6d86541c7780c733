// Package advisor checks API definitions against gateway best practices.
// Unlike the rules catalogue it is advisory: most findings are warnings or
// info, and unparseable files are skipped rather than reported.
package advisor

import (
	"fmt"
	"strings"

	"github.com/apimguard/apimguard/internal/manifest"
	"github.com/apimguard/apimguard/internal/models"
)

// Security headers that count as hardening when added by a
// transform-headers policy.
var securityHeaders = []string{
	"X-Content-Type-Options",
	"X-Frame-Options",
	"Strict-Transport-Security",
}

// AdvisePath runs the built-in advisory checks over every ApiDefinition
// under a file or directory.
func AdvisePath(root string, exts []string) ([]models.Finding, error) {
	files, err := manifest.Files(root, exts)
	if err != nil {
		return nil, err
	}

	var findings []models.Finding
	for _, file := range files {
		docs, err := manifest.LoadFile(file)
		if err != nil {
			// best-practice lint only; the validator reports decode errors
			continue
		}
		for _, doc := range docs {
			if doc.Kind == "ApiDefinition" {
				findings = append(findings, Advise(doc)...)
			}
		}
	}
	return findings, nil
}

// Advise checks one ApiDefinition document.
func Advise(doc *manifest.Document) []models.Finding {
	name := doc.Name()
	tree := doc.Raw()
	var findings []models.Finding

	add := func(sev models.Severity, msg string) {
		findings = append(findings, models.Finding{
			Severity: sev,
			Subject:  name,
			Message:  msg,
			File:     doc.File,
		})
	}

	policies := collectPolicies(tree)

	if !hasPolicyType(policies, "rate-limit") && !hasPolicyType(policies, "quota") {
		add(models.SeverityWarning, "no rate limiting policy found")
	}

	for _, policy := range policies {
		if t, _ := policy["policy"].(string); t == "rate-limit" {
			findings = append(findings, checkRateLimit(policy, name, doc.File)...)
		}
	}

	if !hasSecurityHeaders(policies) {
		add(models.SeverityInfo, "consider adding security headers (X-Content-Type-Options, X-Frame-Options, etc.)")
	}

	if manifest.LookupString(tree, "spec.analytics.logging.content") == "PAYLOADS" {
		condition := manifest.LookupString(tree, "spec.analytics.logging.condition")
		if condition == "" || condition == "true" {
			add(models.SeverityWarning, "payload logging enabled without condition - may impact performance")
		}
	}

	for _, group := range manifest.Sequence(tree, "spec.proxy.groups") {
		for _, endpoint := range manifest.Sequence(group, "endpoints") {
			target, _ := endpoint["target"].(string)
			if target == "" {
				continue
			}
			if isExternalTarget(target) && !hasPolicyType(policies, "circuit-breaker") {
				add(models.SeverityInfo, "consider adding circuit breaker for external endpoint: "+target)
			}
		}
	}

	return findings
}

// checkRateLimit flags limits that are suspiciously high or low.
func checkRateLimit(policy map[string]any, name, file string) []models.Finding {
	var findings []models.Finding
	add := func(sev models.Severity, msg string) {
		findings = append(findings, models.Finding{Severity: sev, Subject: name, Message: msg, File: file})
	}

	limit := intAt(policy, "configuration.rate.limit")
	periodUnit := manifest.LookupString(policy, "configuration.rate.periodTimeUnit")
	if periodUnit == "" {
		periodUnit = "SECONDS"
	}

	if periodUnit == "SECONDS" && limit > 100 {
		add(models.SeverityWarning, fmt.Sprintf("very high rate limit: %d/second", limit))
	}
	if periodUnit == "MINUTES" && limit < 5 {
		add(models.SeverityInfo, fmt.Sprintf("low rate limit: %d/minute - may affect usability", limit))
	}
	return findings
}

// intAt reads an integer leaf, tolerating the float form some decoders
// produce. Absent or non-numeric values yield 0.
func intAt(tree map[string]any, path string) int {
	v, ok := manifest.Lookup(tree, path)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

// collectPolicies flattens pre and post policies of every flow.
func collectPolicies(tree map[string]any) []map[string]any {
	var policies []map[string]any
	for _, flow := range manifest.Sequence(tree, "spec.flows") {
		policies = append(policies, manifest.Sequence(flow, "pre")...)
		policies = append(policies, manifest.Sequence(flow, "post")...)
	}
	return policies
}

func hasPolicyType(policies []map[string]any, policyType string) bool {
	for _, p := range policies {
		if t, _ := p["policy"].(string); t == policyType {
			return true
		}
	}
	return false
}

func hasSecurityHeaders(policies []map[string]any) bool {
	for _, p := range policies {
		if t, _ := p["policy"].(string); t != "transform-headers" {
			continue
		}
		config, _ := p["configuration"].(map[string]any)
		for _, header := range manifest.Sequence(config, "addHeaders") {
			headerName, _ := header["name"].(string)
			for _, want := range securityHeaders {
				if headerName == want {
					return true
				}
			}
		}
	}
	return false
}

// isExternalTarget treats anything outside the cluster-local DNS suffix as
// an external call.
func isExternalTarget(target string) bool {
	return strings.Contains(strings.ToLower(target), "external") ||
		!strings.Contains(target, ".svc.cluster.local")
}

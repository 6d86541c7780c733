package rules

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/apimguard/apimguard/internal/manifest"
	"github.com/apimguard/apimguard/internal/models"
)

var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Evaluate runs the catalogue against one document. Documents outside the
// gateway API group, or of an unrecognized kind, contribute no findings.
// Findings are appended in check order (required fields, enums, structural,
// cross-cutting) and never sorted or deduplicated.
func Evaluate(doc *manifest.Document) []models.Finding {
	if !doc.IsGatewayResource() {
		return nil
	}
	entry, ok := Catalogue[doc.Kind]
	if !ok {
		return nil
	}

	name := doc.Name()
	var findings []models.Finding

	add := func(sev models.Severity, format string, args ...any) {
		findings = append(findings, models.Finding{
			Severity: sev,
			Subject:  name,
			Message:  fmt.Sprintf(format, args...),
			File:     doc.File,
		})
	}

	tree := doc.Raw()

	for _, path := range entry.Required {
		v, ok := manifest.Lookup(tree, path)
		if !ok || manifest.IsEmpty(v) {
			add(models.SeverityError, "missing required field: %s", path)
		}
	}

	for _, enum := range entry.Enums {
		value := manifest.LookupString(tree, enum.Path)
		if value != "" && !slices.Contains(enum.Allowed, value) {
			add(models.SeverityError, "invalid %s: %s", enum.Label, value)
		}
	}

	switch doc.Kind {
	case KindAPIDefinition:
		checkAPIDefinition(doc, add)
	case KindAPIPlan:
		checkAPIPlan(doc, add)
	}

	return findings
}

type addFunc func(sev models.Severity, format string, args ...any)

func checkAPIDefinition(doc *manifest.Document, add addFunc) {
	tree := doc.Raw()

	for _, vh := range manifest.Sequence(tree, "spec.proxy.virtualHosts") {
		path, _ := vh["path"].(string)
		if !strings.HasPrefix(path, "/") {
			add(models.SeverityError, "virtual host path must start with '/': %s", path)
		}
	}

	for _, group := range manifest.Sequence(tree, "spec.proxy.groups") {
		endpoints, _ := group["endpoints"].([]any)
		if len(endpoints) == 0 {
			groupName, _ := group["name"].(string)
			if groupName == "" {
				groupName = "unknown"
			}
			add(models.SeverityWarning, "endpoint group '%s' has no endpoints", groupName)
			continue
		}
		for _, e := range endpoints {
			endpoint, ok := e.(map[string]any)
			if !ok {
				continue
			}
			target, _ := endpoint["target"].(string)
			switch {
			case target == "":
				add(models.SeverityError, "endpoint missing target URL")
			case !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://"):
				add(models.SeverityWarning, "endpoint target should be absolute URL: %s", target)
			}
		}
	}

	for _, flow := range manifest.Sequence(tree, "spec.flows") {
		checkFlow(flow, add)
	}

	if enabled, _ := manifest.Lookup(tree, "spec.analytics.enabled"); enabled == true {
		if manifest.LookupString(tree, "spec.analytics.logging.content") == "PAYLOADS" {
			add(models.SeverityWarning, "payload logging enabled - consider performance impact")
		}
	}

	version := manifest.LookupString(tree, "spec.version")
	if version != "" && !semverPattern.MatchString(version) {
		add(models.SeverityWarning, "version '%s' doesn't follow semver format", version)
	}
}

func checkFlow(flow map[string]any, add addFunc) {
	flowName, _ := flow["name"].(string)
	if flowName == "" {
		flowName = "unnamed"
	}

	if manifest.LookupString(flow, "pathOperator.path") == "" {
		add(models.SeverityWarning, "flow '%s' has no path defined", flowName)
	}

	for _, policy := range flowPolicies(flow) {
		policyName, _ := policy["name"].(string)
		if policyName == "" {
			policyName = "unnamed"
		}
		policyType, _ := policy["policy"].(string)
		if policyType == "" {
			add(models.SeverityError, "policy '%s' in flow '%s' missing policy type", policyName, flowName)
		}
		if config, ok := policy["configuration"]; !ok || manifest.IsEmpty(config) {
			add(models.SeverityWarning, "policy '%s' has no configuration", policyName)
		}
	}
}

func checkAPIPlan(doc *manifest.Document, add addFunc) {
	tree := doc.Raw()

	hasRateLimit := false
	for _, flow := range manifest.Sequence(tree, "spec.flows") {
		for _, policy := range manifest.Sequence(flow, "pre") {
			policyType, _ := policy["policy"].(string)
			if policyType == "rate-limit" || policyType == "quota" {
				hasRateLimit = true
			}
		}
	}

	security := manifest.LookupString(tree, "spec.security")
	if !hasRateLimit && security != SecurityKeyless {
		add(models.SeverityWarning, "plan has no rate limiting or quota policy")
	}
}

// flowPolicies collects a flow's pre and post policy entries in order.
func flowPolicies(flow map[string]any) []map[string]any {
	policies := manifest.Sequence(flow, "pre")
	return append(policies, manifest.Sequence(flow, "post")...)
}

// Package rules implements the configuration-rule validator for gateway
// CRDs: a static per-kind catalogue of required fields, value enums, and
// structural checks, evaluated over decoded manifests.
package rules

// Resource kinds the validator recognizes.
const (
	KindAPIDefinition     = "ApiDefinition"
	KindAPIPlan           = "ApiPlan"
	KindManagementContext = "ManagementContext"
)

// EnumField restricts a dotted path to a fixed value set. Empty or absent
// values are left to the required-field check.
type EnumField struct {
	Path    string
	Label   string
	Allowed []string
}

// KindRules is the catalogue entry for one resource kind.
type KindRules struct {
	Required []string
	Enums    []EnumField
}

// Catalogue is the per-kind rule table. Initialized once at process start
// and never mutated.
var Catalogue = map[string]KindRules{
	KindAPIDefinition: {
		Required: []string{
			"spec.name",
			"spec.version",
			"spec.contextRef",
			"spec.proxy.virtualHosts",
			"spec.proxy.groups",
		},
		Enums: []EnumField{
			{
				Path:    "spec.lifecycleState",
				Label:   "lifecycleState",
				Allowed: []string{"CREATED", "PUBLISHED", "UNPUBLISHED", "DEPRECATED"},
			},
		},
	},
	KindAPIPlan: {
		Required: []string{
			"spec.name",
			"spec.apiRef",
			"spec.contextRef",
			"spec.security",
			"spec.status",
		},
		Enums: []EnumField{
			{
				Path:    "spec.security",
				Label:   "security type",
				Allowed: []string{"API_KEY", "JWT", "OAUTH2", "KEY_LESS", "MTLS"},
			},
			{
				Path:    "spec.status",
				Label:   "plan status",
				Allowed: []string{"STAGING", "PUBLISHED", "DEPRECATED", "CLOSED"},
			},
		},
	},
	KindManagementContext: {
		Required: []string{
			"spec.baseUrl",
			"spec.auth.secretRef",
		},
	},
}

// SecurityKeyless is the access mode that exempts a plan from the
// rate-limiting advisory.
const SecurityKeyless = "KEY_LESS"

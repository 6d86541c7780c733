package differ

import (
	"testing"

	"github.com/wI2L/jsondiff"
)

func TestTranslateDomainPaths(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/spec/security", "plan security type changed"},
		{"/spec/flows/0/pre/1/configuration", "policy chain changed"},
		{"/spec/proxy/groups/0/endpoints/0/target", "upstream endpoints changed"},
		{"/spec/proxy/virtualHosts/0/path", "entrypoint paths changed"},
		{"/spec/flows/0/name", "flow configuration changed"},
		{"/spec/version", "API version changed"},
		{"/spec/lifecycleState", "lifecycle state changed"},
		{"/spec/analytics/enabled", "analytics configuration changed"},
		{"/metadata/labels/team", "resource metadata changed"},
	}
	for _, tc := range cases {
		got := translateOperation(jsondiff.Operation{Type: jsondiff.OperationReplace, Path: tc.path})
		if got != tc.want {
			t.Errorf("path %s: got %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestTranslateGenericFallback(t *testing.T) {
	cases := []struct {
		opType string
		want   string
	}{
		{jsondiff.OperationAdd, "configuration added at /spec/tags"},
		{jsondiff.OperationRemove, "configuration removed at /spec/tags"},
		{jsondiff.OperationReplace, "configuration changed at /spec/tags"},
	}
	for _, tc := range cases {
		got := translateOperation(jsondiff.Operation{Type: tc.opType, Path: "/spec/tags"})
		if got != tc.want {
			t.Errorf("op %s: got %q, want %q", tc.opType, got, tc.want)
		}
	}
}

func TestTranslateDeduplicates(t *testing.T) {
	patches := jsondiff.Patch{
		{Type: jsondiff.OperationReplace, Path: "/spec/flows/0/pre/0/name"},
		{Type: jsondiff.OperationReplace, Path: "/spec/flows/1/post/2/policy"},
		{Type: jsondiff.OperationReplace, Path: "/spec/version"},
	}
	translations := Translate(patches)
	if len(translations) != 2 {
		t.Fatalf("expected 2 deduplicated translations, got %v", translations)
	}
	if translations[0] != "policy chain changed" || translations[1] != "API version changed" {
		t.Errorf("unexpected translations: %v", translations)
	}
}

func TestTranslateEmptyPatch(t *testing.T) {
	if got := Translate(nil); got != nil {
		t.Errorf("expected nil for empty patch, got %v", got)
	}
}

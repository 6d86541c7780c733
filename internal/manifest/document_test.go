package manifest

import "testing"

func TestNewDocumentRejectsNonMappings(t *testing.T) {
	if d := NewDocument("scalar", "f.yaml"); d != nil {
		t.Error("expected nil for scalar document")
	}
	if d := NewDocument([]any{1, 2}, "f.yaml"); d != nil {
		t.Error("expected nil for sequence document")
	}
	if d := NewDocument(nil, "f.yaml"); d != nil {
		t.Error("expected nil for empty document")
	}
}

func TestDocumentName(t *testing.T) {
	d := NewDocument(sampleTree(), "f.yaml")
	if d.Name() != "echo-api" {
		t.Errorf("expected 'echo-api', got %q", d.Name())
	}

	anon := NewDocument(map[string]any{"kind": "ApiDefinition"}, "f.yaml")
	if anon.Name() != "unknown" {
		t.Errorf("expected 'unknown' for missing metadata.name, got %q", anon.Name())
	}
}

func TestIsGatewayResource(t *testing.T) {
	cases := []struct {
		apiVersion string
		want       bool
	}{
		{"gravitee.io/v1alpha1", true},
		{"gravitee.io/v1beta1", true},
		{"apps/v1", false},
		{"v1", false},
		{"", false},
	}
	for _, tc := range cases {
		d := NewDocument(map[string]any{"apiVersion": tc.apiVersion}, "f.yaml")
		if got := d.IsGatewayResource(); got != tc.want {
			t.Errorf("apiVersion %q: IsGatewayResource = %v, want %v", tc.apiVersion, got, tc.want)
		}
	}
}

func TestSpecFallsBackToEmptyMap(t *testing.T) {
	d := NewDocument(map[string]any{"kind": "ApiDefinition"}, "f.yaml")
	spec := d.Spec()
	if spec == nil {
		t.Fatal("expected non-nil spec map")
	}
	if len(spec) != 0 {
		t.Errorf("expected empty spec, got %v", spec)
	}
}

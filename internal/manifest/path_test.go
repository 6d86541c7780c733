package manifest

import "testing"

func sampleTree() map[string]any {
	return map[string]any{
		"apiVersion": "gravitee.io/v1alpha1",
		"kind":       "ApiDefinition",
		"metadata": map[string]any{
			"name": "echo-api",
		},
		"spec": map[string]any{
			"name":    "Echo API",
			"version": "1.0.0",
			"proxy": map[string]any{
				"virtualHosts": []any{
					map[string]any{"path": "/echo"},
				},
				"groups": []any{
					map[string]any{
						"name":      "default",
						"endpoints": []any{map[string]any{"target": "https://echo.example.com"}},
					},
				},
			},
		},
	}
}

func TestLookupNestedPath(t *testing.T) {
	tree := sampleTree()

	v, ok := Lookup(tree, "spec.name")
	if !ok {
		t.Fatal("expected spec.name to resolve")
	}
	if v != "Echo API" {
		t.Errorf("expected 'Echo API', got %v", v)
	}

	if _, ok := Lookup(tree, "spec.proxy.virtualHosts"); !ok {
		t.Error("expected spec.proxy.virtualHosts to resolve")
	}
}

func TestLookupAbsentPath(t *testing.T) {
	tree := sampleTree()

	if _, ok := Lookup(tree, "spec.contextRef"); ok {
		t.Error("expected spec.contextRef to be absent")
	}
	if _, ok := Lookup(tree, "spec.proxy.missing.deeper"); ok {
		t.Error("expected path through absent key to be absent")
	}
}

func TestLookupThroughNonMapIsAbsent(t *testing.T) {
	tree := sampleTree()

	// spec.name is a string; descending into it must not panic.
	if _, ok := Lookup(tree, "spec.name.inner"); ok {
		t.Error("expected path through a scalar to be absent")
	}
}

func TestLookupString(t *testing.T) {
	tree := sampleTree()

	if got := LookupString(tree, "spec.version"); got != "1.0.0" {
		t.Errorf("expected '1.0.0', got %q", got)
	}
	if got := LookupString(tree, "spec.proxy"); got != "" {
		t.Errorf("expected empty string for non-string leaf, got %q", got)
	}
	if got := LookupString(tree, "spec.nope"); got != "" {
		t.Errorf("expected empty string for absent path, got %q", got)
	}
}

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"nonempty string", "x", false},
		{"empty map", map[string]any{}, true},
		{"nonempty map", map[string]any{"a": 1}, false},
		{"empty slice", []any{}, true},
		{"nonempty slice", []any{1}, false},
		{"zero int", 0, false},
		{"bool false", false, false},
	}
	for _, tc := range cases {
		if got := IsEmpty(tc.value); got != tc.want {
			t.Errorf("%s: IsEmpty = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSequence(t *testing.T) {
	tree := sampleTree()

	groups := Sequence(tree, "spec.proxy.groups")
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0]["name"] != "default" {
		t.Errorf("expected group name 'default', got %v", groups[0]["name"])
	}

	if got := Sequence(tree, "spec.absent"); got != nil {
		t.Errorf("expected nil for absent path, got %v", got)
	}
	if got := Sequence(tree, "spec.name"); got != nil {
		t.Errorf("expected nil for non-sequence leaf, got %v", got)
	}
}

func TestSequenceSkipsNonMapEntries(t *testing.T) {
	tree := map[string]any{
		"items": []any{
			map[string]any{"a": 1},
			"scalar",
			map[string]any{"b": 2},
		},
	}
	items := Sequence(tree, "items")
	if len(items) != 2 {
		t.Fatalf("expected 2 map entries, got %d", len(items))
	}
}

// Package manifest loads Kubernetes-style YAML manifests and exposes
// typed access to their nested fields.
package manifest

import "strings"

// GraviteeAPIGroup is the apiVersion prefix that marks a document as a
// gateway CRD. Documents outside this group are not validation targets.
const GraviteeAPIGroup = "gravitee.io/"

// Document is one decoded unit of a (possibly multi-document) YAML stream.
// The raw tree keeps everything the decoder produced; the named fields are
// the discriminators every checker needs.
type Document struct {
	APIVersion string
	Kind       string
	File       string
	raw        map[string]any
}

// NewDocument wraps a decoded YAML mapping. Returns nil for values that
// are not mappings (scalars, sequences, empty documents).
func NewDocument(v any, file string) *Document {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	d := &Document{File: file, raw: m}
	d.APIVersion, _ = m["apiVersion"].(string)
	d.Kind, _ = m["kind"].(string)
	return d
}

// Name returns metadata.name, or "unknown" when absent.
func (d *Document) Name() string {
	if v, ok := Lookup(d.raw, "metadata.name"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "unknown"
}

// IsGatewayResource reports whether the document belongs to the gateway
// API group.
func (d *Document) IsGatewayResource() bool {
	return strings.HasPrefix(d.APIVersion, GraviteeAPIGroup)
}

// Spec returns the spec subtree, or an empty map when absent.
func (d *Document) Spec() map[string]any {
	if m, ok := d.raw["spec"].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// Raw exposes the full decoded tree for path lookups and rule input.
func (d *Document) Raw() map[string]any {
	return d.raw
}

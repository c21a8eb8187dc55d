package http_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
)

// findOpenAPIDocument walks up from the test directory to api/openapi.yaml.
func findOpenAPIDocument(t *testing.T) string {
	dir, _ := os.Getwd()
	for range 5 {
		candidate := filepath.Join(dir, "api", "openapi.yaml")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		dir = filepath.Dir(dir)
	}

	t.Fatalf("could not find api/openapi.yaml")
	return ""
}

// TestOpenAPIDocument validates the document and checks it covers the mounted routes.
func TestOpenAPIDocument(t *testing.T) {
	docPath := findOpenAPIDocument(t)
	data, err := os.ReadFile(docPath)
	if err != nil {
		t.Fatalf("failed to read openapi.yaml: %v", err)
	}

	loader := &openapi3.Loader{IsExternalRefsAllowed: false}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		t.Fatalf("failed to parse OpenAPI doc: %v", err)
	}

	if err := doc.Validate(context.Background()); err != nil {
		t.Fatalf("OpenAPI doc validation failed: %v", err)
	}

	// Check that every mounted path is documented
	expectedPaths := []string{
		"/v1/health",
		"/v1/ready",
		"/v1/ports",
		"/v1/ports/{id}",
		"/v1/coastlines",
		"/v1/voyages",
		"/v1/voyages/{id}",
		"/v1/voyages/{id}/route",
		"/v1/voyages/{id}/hazards",
		"/v1/voyages/{id}/simulation",
		"/v1/voyages/{id}/reset",
		"/v1/geodesy/distance",
		"/v1/hazards/classify",
		"/graphql",
	}

	for _, path := range expectedPaths {
		if item := doc.Paths.Find(path); item == nil {
			t.Errorf("expected path %s not found in doc", path)
		}
	}

	// Verify key schemas exist
	expectedSchemas := []string{
		"Waypoint",
		"Port",
		"Coastline",
		"RouteRequest",
		"EnvironmentalReading",
		"Hazard",
		"Voyage",
		"Distance",
		"APIError",
		"Pagination",
	}

	for _, schema := range expectedSchemas {
		if doc.Components.Schemas[schema] == nil {
			t.Errorf("expected schema %s not found", schema)
		}
	}

	t.Logf("OpenAPI doc valid: %d paths, %d schemas", len(doc.Paths.Map()), len(doc.Components.Schemas))
}

// TestOpenAPIInfo verifies doc metadata.
func TestOpenAPIInfo(t *testing.T) {
	docPath := findOpenAPIDocument(t)
	data, err := os.ReadFile(docPath)
	if err != nil {
		t.Fatalf("failed to read openapi.yaml: %v", err)
	}

	loader := &openapi3.Loader{IsExternalRefsAllowed: false}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		t.Fatalf("failed to parse OpenAPI doc: %v", err)
	}

	if doc.Info.Title != "SeaRoute Voyage API" {
		t.Errorf("expected title 'SeaRoute Voyage API', got %q", doc.Info.Title)
	}

	if doc.Info.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %q", doc.Info.Version)
	}

	if doc.Info.Description == "" {
		t.Error("expected non-empty description")
	}

	if len(doc.Servers) == 0 {
		t.Error("expected at least one server")
	}

	t.Logf("OpenAPI Info: %s v%s @ %s", doc.Info.Title, doc.Info.Version, doc.Servers[0].URL)
}

//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "peddy-api"
	ConsumerName = "pet-catalog-web"

	StateCategoriesSeeded = "categories Dog and Cat exist"
	StatePetsSeeded       = "pets baseline"
	StateCategoryEmpty    = "no pets in category Bird"
	StatePetExists        = "pet with id 1 exists"
	StatePetMissing       = "no pet with id 404"
)

const (
	ExistingPetID = "1"
	MissingPetID  = "404"
	EmptyCategory = "Bird"
)

// ExamplePetPayload is the upstream shape of one pet, numeric id included.
func ExamplePetPayload() map[string]any {
	return map[string]any{
		"petId":         1,
		"pet_name":      "Sunny",
		"category":      "Dog",
		"breed":         "Golden Retriever",
		"date_of_birth": "2023-01-15",
		"gender":        "Male",
		"price":         1200,
		"image":         "https://example.pact/pets/sunny.png",
		"pet_details":   "Friendly and energetic.",
	}
}

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}

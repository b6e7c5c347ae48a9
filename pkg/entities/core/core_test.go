package core

import (
	"testing"

	"github.com/driftcheck/driftcheck/pkg/entity"
	"github.com/driftcheck/driftcheck/pkg/registry"
)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	if err := Register(reg); err != nil {
		t.Fatalf("failed to register core builders: %v", err)
	}
	return reg
}

func TestRegisterContributesAllKinds(t *testing.T) {
	reg := newRegistry(t)
	for _, kind := range []entity.Kind{KindProject, KindArtifact, KindDataitem, KindModel, KindSecret} {
		if _, err := reg.Resolve(kind); err != nil {
			t.Errorf("expected kind %s to be registered: %v", kind, err)
		}
	}
}

func TestProjectDefaultsFromEmptySpec(t *testing.T) {
	reg := newRegistry(t)

	instance, err := reg.Construct(KindProject, map[string]any{})
	if err != nil {
		t.Fatalf("an empty project spec must construct: %v", err)
	}

	doc, err := instance.ToDict()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc["context"] != "." {
		t.Errorf("expected defaulted context '.', got %v", doc["context"])
	}
	for _, field := range []string{"functions", "workflows", "artifacts"} {
		if _, ok := doc[field]; !ok {
			t.Errorf("expected defaulted field %q in serialized output", field)
		}
	}
}

func TestSecretDefaultsProvider(t *testing.T) {
	reg := newRegistry(t)

	instance, err := reg.Construct(KindSecret, map[string]any{})
	if err != nil {
		t.Fatalf("an empty secret spec must construct: %v", err)
	}
	doc, err := instance.ToDict()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc["provider"] != "kubernetes" {
		t.Errorf("expected defaulted provider, got %v", doc["provider"])
	}
}

func TestSecretRejectsUnknownProvider(t *testing.T) {
	reg := newRegistry(t)
	_, err := reg.Construct(KindSecret, map[string]any{"provider": "dropbox"})
	if err == nil {
		t.Fatal("expected rejection of unknown provider")
	}
}

func TestArtifactRequiresPath(t *testing.T) {
	reg := newRegistry(t)

	if _, err := reg.Construct(KindArtifact, map[string]any{}); err == nil {
		t.Error("expected rejection of an artifact without path")
	}
	if _, err := reg.Construct(KindArtifact, map[string]any{"path": "s3://b/a"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestArtifactPreservesUnmodeledFields(t *testing.T) {
	reg := newRegistry(t)

	instance, err := reg.Construct(KindArtifact, map[string]any{
		"path":      "s3://b/a",
		"src_path":  "./local/a",
		"unmodeled": 42,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc, err := instance.ToDict()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc["unmodeled"] != 42 {
		t.Errorf("input fields the builder does not model must survive serialization, got %v", doc["unmodeled"])
	}
	if doc["src_path"] != "./local/a" {
		t.Errorf("expected src_path preserved, got %v", doc["src_path"])
	}
}

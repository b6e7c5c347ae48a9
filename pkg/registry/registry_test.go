package registry

import (
	"errors"
	"testing"

	"github.com/driftcheck/driftcheck/pkg/entity"
)

type stubInstance struct {
	kind entity.Kind
	doc  map[string]any
}

func (s *stubInstance) Kind() entity.Kind               { return s.kind }
func (s *stubInstance) ToDict() (map[string]any, error) { return s.doc, nil }

func stubBuilder(kind entity.Kind) entity.Builder {
	return entity.BuilderFunc(func(spec map[string]any) (entity.Instance, error) {
		return &stubInstance{kind: kind, doc: spec}, nil
	})
}

func TestRegisterAndResolve(t *testing.T) {
	reg := New()
	if err := reg.Register("function:python", stubBuilder("function:python")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	builder, err := reg.Resolve("function:python")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if builder == nil {
		t.Fatal("expected a builder")
	}
}

func TestDuplicateRegistrationFails(t *testing.T) {
	reg := New()
	if err := reg.Register("artifact", stubBuilder("artifact")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := reg.Register("artifact", stubBuilder("artifact"))
	if !errors.Is(err, entity.ErrDuplicateRegistration) {
		t.Fatalf("expected ErrDuplicateRegistration, got %v", err)
	}

	// The original registration is untouched.
	if _, rerr := reg.Resolve("artifact"); rerr != nil {
		t.Errorf("original registration should survive: %v", rerr)
	}
}

func TestRegisterAfterFreezeFails(t *testing.T) {
	reg := New()
	reg.Freeze()

	err := reg.Register("model", stubBuilder("model"))
	if !errors.Is(err, entity.ErrRegistryFrozen) {
		t.Fatalf("expected ErrRegistryFrozen, got %v", err)
	}
}

func TestResolveUnknownKind(t *testing.T) {
	reg := New()
	_, err := reg.Resolve("workflow:unknown-runtime")
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if entity.StageOf(err) != entity.StageResolve {
		t.Errorf("expected resolve stage, got %q", entity.StageOf(err))
	}
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	reg := New()
	if err := reg.Register("", stubBuilder("")); err == nil {
		t.Error("expected error for empty kind")
	}
	if err := reg.Register("artifact", nil); err == nil {
		t.Error("expected error for nil builder")
	}
}

func TestConstruct(t *testing.T) {
	reg := New()
	if err := reg.Register("dataitem", stubBuilder("dataitem")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reg.Freeze()

	instance, err := reg.Construct("dataitem", map[string]any{"path": "s3://x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if instance.Kind() != entity.Kind("dataitem") {
		t.Errorf("expected kind dataitem, got %s", instance.Kind())
	}

	_, err = reg.Construct("secret", nil)
	if entity.StageOf(err) != entity.StageResolve {
		t.Errorf("expected resolve failure, got %v", err)
	}
}

func TestConstructWrapsBuilderRejection(t *testing.T) {
	reg := New()
	rejecting := entity.BuilderFunc(func(spec map[string]any) (entity.Instance, error) {
		return nil, errors.New("path is required")
	})
	if err := reg.Register("artifact", rejecting); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := reg.Construct("artifact", map[string]any{})
	if entity.StageOf(err) != entity.StageConstruct {
		t.Errorf("expected construct stage, got %v", err)
	}
}

func TestKindsSorted(t *testing.T) {
	reg := New()
	for _, kind := range []entity.Kind{"workflow:kfp", "artifact", "function:python"} {
		if err := reg.Register(kind, stubBuilder(kind)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	kinds := reg.Kinds()
	want := []entity.Kind{"artifact", "function:python", "workflow:kfp"}
	if len(kinds) != len(want) {
		t.Fatalf("expected %d kinds, got %d", len(want), len(kinds))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], kinds[i])
		}
	}
}

package entity

import "testing"

func TestParseKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"bare category", "artifact", false},
		{"qualified kind", "function:python", false},
		{"empty string", "", true},
		{"empty category", ":python", true},
		{"empty runtime", "function:", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, err := ParseKind(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got kind %q", tt.input, kind)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tt.input, err)
			}
			if kind.String() != tt.input {
				t.Errorf("expected kind %q, got %q", tt.input, kind)
			}
		})
	}
}

func TestKindAccessors(t *testing.T) {
	kind := Kind("function:python")
	if kind.Category() != "function" {
		t.Errorf("expected category 'function', got %q", kind.Category())
	}
	if kind.Runtime() != "python" {
		t.Errorf("expected runtime 'python', got %q", kind.Runtime())
	}

	bare := Kind("project")
	if bare.Category() != "project" {
		t.Errorf("expected category 'project', got %q", bare.Category())
	}
	if bare.Runtime() != "" {
		t.Errorf("expected empty runtime, got %q", bare.Runtime())
	}
}

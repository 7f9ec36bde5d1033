package bind

import (
	"testing"

	"github.com/zplgrid/zplgrid/template"
)

func TestSubstituteBasic(t *testing.T) {
	out, err := Substitute("p", "hello {name}", Variables{"name": "world"}, template.MissingVariablePolicyError)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hello world" {
		t.Errorf("got %q", out)
	}
}

func TestSubstituteEscaping(t *testing.T) {
	out, err := Substitute("p", "{{literal}} {name} }}", Variables{"name": "x"}, template.MissingVariablePolicyError)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "{literal} x }" {
		t.Errorf("got %q", out)
	}
}

func TestSubstituteMissingErrorPolicy(t *testing.T) {
	_, err := Substitute("p", "{missing}", Variables{}, template.MissingVariablePolicyError)
	if err == nil {
		t.Fatal("expected MissingVariableError")
	}
	if _, ok := err.(*template.MissingVariableError); !ok {
		t.Fatalf("got %T, want *template.MissingVariableError", err)
	}
}

func TestSubstituteMissingEmptyPolicy(t *testing.T) {
	out, err := Substitute("p", "a{missing}b", Variables{}, template.MissingVariableEmpty)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ab" {
		t.Errorf("got %q, want %q", out, "ab")
	}
}

func TestSubstituteUnbalancedBraceIsFormatError(t *testing.T) {
	_, err := Substitute("p", "a{b", Variables{}, template.MissingVariablePolicyError)
	if err == nil {
		t.Fatal("expected FormatError for unbalanced brace")
	}
	if _, ok := err.(*template.FormatError); !ok {
		t.Fatalf("got %T, want *template.FormatError", err)
	}
}

func TestSubstituteWithFormatSpecWidth(t *testing.T) {
	out, err := Substitute("p", "{n:05d}", Variables{"n": "7"}, template.MissingVariablePolicyError)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "00007" {
		t.Errorf("got %q, want %q", out, "00007")
	}
}

func TestIdempotentSubstitution(t *testing.T) {
	vars := Variables{"asset_id": "A1", "title": "Hi"}
	a, err1 := Substitute("p", "{asset_id} {title}", vars, template.MissingVariablePolicyError)
	b, err2 := Substitute("p", "{asset_id} {title}", vars, template.MissingVariablePolicyError)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v %v", err1, err2)
	}
	if a != b {
		t.Errorf("substitution not idempotent: %q != %q", a, b)
	}
}

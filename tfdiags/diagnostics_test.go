package tfdiags

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/go-test/deep"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

func TestDiagnosticsAppend(t *testing.T) {
	var diags Diagnostics
	if diags.HasErrors() {
		t.Fatal("empty diagnostics should have no errors")
	}
	if err := diags.Err(); err != nil {
		t.Fatalf("empty diagnostics gave error: %s", err)
	}

	diags = diags.Append(errors.New("boop"))
	if got, want := len(diags), 1; got != want {
		t.Fatalf("wrong length %d; want %d", got, want)
	}
	if !diags.HasErrors() {
		t.Fatal("should have errors")
	}

	// A nested Diagnostics should flatten.
	var more Diagnostics
	more = more.Append(errors.New("beep"))
	diags = diags.Append(more)
	if got, want := len(diags), 2; got != want {
		t.Fatalf("wrong length %d; want %d", got, want)
	}

	// A multierror should be split into individual diagnostics.
	var merr error
	merr = multierror.Append(merr, errors.New("one"), errors.New("two"))
	diags = diags.Append(merr)
	if got, want := len(diags), 4; got != want {
		t.Fatalf("wrong length %d; want %d", got, want)
	}

	// HCL diagnostics should be wrapped, preserving severity.
	diags = diags.Append(hcl.Diagnostics{
		{
			Severity: hcl.DiagWarning,
			Summary:  "just a warning",
		},
	})
	if got, want := len(diags), 5; got != want {
		t.Fatalf("wrong length %d; want %d", got, want)
	}
	if got, want := diags[4].Severity(), Warning; got != want {
		t.Errorf("wrong severity %s; want %s", got, want)
	}

	// nils are skipped entirely.
	before := len(diags)
	diags = diags.Append(nil)
	if len(diags) != before {
		t.Errorf("appending nil changed the length")
	}
}

func TestDiagnosticsErr(t *testing.T) {
	var diags Diagnostics
	diags = diags.Append(AttributeValue(
		Error, "Missing required attribute", "The attribute \"name\" is required.",
		cty.GetAttrPath("name"),
	))

	err := diags.Err()
	if err == nil {
		t.Fatal("want error, got nil")
	}
	if got, want := err.Error(), "Missing required attribute"; !strings.Contains(got, want) {
		t.Errorf("message %q does not contain %q", got, want)
	}

	diags = diags.Append(errors.New("something else entirely"))
	err = diags.Err()
	if got, want := err.Error(), "2 problems:"; !strings.Contains(got, want) {
		t.Errorf("message %q does not contain %q", got, want)
	}
}

func TestDiagnosticsSort(t *testing.T) {
	var diags Diagnostics
	diags = diags.Append(
		AttributeValue(Error, "b", "", cty.GetAttrPath("zzz")),
		AttributeValue(Error, "a", "", cty.GetAttrPath("aaa")),
		Sourceless(Warning, "w", ""),
		Sourceless(Error, "e", ""),
	)
	diags.Sort()

	var got []string
	for _, diag := range diags {
		got = append(got, diag.Description().Summary)
	}
	want := []string{"w", "e", "a", "b"}
	if problems := deep.Equal(got, want); problems != nil {
		for _, problem := range problems {
			t.Error(problem)
		}
	}
}

func TestFormatCtyPath(t *testing.T) {
	tests := []struct {
		path cty.Path
		want string
	}{
		{
			cty.GetAttrPath("configuration"),
			"configuration",
		},
		{
			cty.GetAttrPath("configuration").GetAttr("backend_configuration").GetAttr("shots"),
			"configuration.backend_configuration.shots",
		},
		{
			cty.GetAttrPath("ingress").IndexInt(0).GetAttr("from_port"),
			"ingress[0].from_port",
		},
		{
			cty.GetAttrPath("tags").Index(cty.StringVal("Name")),
			`tags["Name"]`,
		},
	}

	for _, test := range tests {
		t.Run(test.want, func(t *testing.T) {
			got := FormatCtyPath(test.path)
			if got != test.want {
				t.Errorf("wrong result\ngot:  %s\nwant: %s", got, test.want)
			}
		})
	}
}

func TestAttributeValuePath(t *testing.T) {
	path := cty.GetAttrPath("a").GetAttr("b")
	diag := AttributeValue(Error, "summary", "detail", path)
	if got := diag.Path(); FormatCtyPath(got) != "a.b" {
		t.Errorf("wrong path: %s", FormatCtyPath(got))
	}
	if got := GetAttribute(diag); FormatCtyPath(got) != "a.b" {
		t.Errorf("wrong path from GetAttribute: %s", FormatCtyPath(got))
	}
	if got := fmt.Sprintf("%s", diag.Severity()); got != "error" {
		t.Errorf("wrong severity string %q", got)
	}
}

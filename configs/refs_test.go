package configs

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/terrasynth/terrasynth/schema"
)

func TestDecodeAttrsReferences(t *testing.T) {
	schemas := map[string]*schema.Schema{
		"vpc_id": {
			Type:     schema.TypeString,
			Required: true,
		},
		"route_table_ids": {
			Type:     schema.TypeList,
			Optional: true,
			Elem:     &schema.Schema{Type: schema.TypeString},
		},
		"name": {
			Type:     schema.TypeString,
			Optional: true,
		},
	}

	src := `
resource "aws_vpc_endpoint" "s3" {
  vpc_id          = aws_vpc.main.id
  route_table_ids = ["${aws_route_table.private.id}", aws_route_table.public.id]
  name            = "endpoint-${aws_vpc.main.id}"
}
`
	parser := NewParser()
	file, diags := parser.ParseConfig([]byte(src), "main.tf")
	if diags.HasErrors() {
		t.Fatalf("parse: %s", diags.Err())
	}

	raw, diags := file.Resources[0].DecodeAttrs(schemas)
	if diags.HasErrors() {
		t.Fatalf("decode: %s", diags.Err())
	}

	// References are never resolved to data; both bare traversals and
	// interpolated ones come out as their own placeholder strings.
	want := map[string]interface{}{
		"vpc_id": "${aws_vpc.main.id}",
		"route_table_ids": []interface{}{
			"${aws_route_table.private.id}",
			"${aws_route_table.public.id}",
		},
		"name": "endpoint-${aws_vpc.main.id}",
	}
	if diff := cmp.Diff(want, raw); diff != "" {
		t.Errorf("wrong decoded attributes (-want +got):\n%s", diff)
	}
}

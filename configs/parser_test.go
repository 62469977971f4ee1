package configs

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/terrasynth/terrasynth/addrs"
	"github.com/terrasynth/terrasynth/schema"
	"github.com/terrasynth/terrasynth/synth"
)

func TestParserParseConfig(t *testing.T) {
	src := `
resource "aws_vpc" "main" {
  cidr_block = "10.0.0.0/16"
}

resource "aws_subnet" "a" {
  vpc_id     = "${aws_vpc.main.id}"
  cidr_block = "10.0.1.0/24"
}
`
	parser := NewParser()
	file, diags := parser.ParseConfig([]byte(src), "main.tf")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.Err())
	}

	if len(file.Resources) != 2 {
		t.Fatalf("got %d resources; want 2", len(file.Resources))
	}
	if rc := file.Resources[0]; rc.Type != "aws_vpc" || rc.Name != "main" {
		t.Errorf("wrong first resource %s.%s", rc.Type, rc.Name)
	}
	if rc := file.Resources[1]; rc.Type != "aws_subnet" || rc.Name != "a" {
		t.Errorf("wrong second resource %s.%s", rc.Type, rc.Name)
	}

	if _, ok := parser.Sources()["main.tf"]; !ok {
		t.Error("parsed source not retained")
	}
}

func TestParserParseConfigJSON(t *testing.T) {
	src := `{
  "resource": {
    "aws_vpc": {
      "main": {
        "cidr_block": "10.0.0.0/16"
      }
    }
  }
}`
	parser := NewParser()
	file, diags := parser.ParseConfig([]byte(src), "main.tf.json")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.Err())
	}

	if len(file.Resources) != 1 {
		t.Fatalf("got %d resources; want 1", len(file.Resources))
	}
	if rc := file.Resources[0]; rc.Type != "aws_vpc" || rc.Name != "main" {
		t.Errorf("wrong resource %s.%s", rc.Type, rc.Name)
	}
}

func TestParserParseConfigSyntaxError(t *testing.T) {
	parser := NewParser()
	_, diags := parser.ParseConfig([]byte(`resource "aws_vpc" {`), "broken.tf")
	if !diags.HasErrors() {
		t.Fatal("succeeded; want syntax errors")
	}
}

func TestResourceDecodeAttrs(t *testing.T) {
	schemas := map[string]*schema.Schema{
		"cidr_block": {
			Type:     schema.TypeString,
			Required: true,
		},
		"enable_dns_support": {
			Type:     schema.TypeBool,
			Optional: true,
		},
		"instance_count": {
			Type:     schema.TypeInt,
			Optional: true,
		},
		"tags": {
			Type:     schema.TypeMap,
			Optional: true,
			Elem:     &schema.Schema{Type: schema.TypeString},
		},
		"azs": {
			Type:     schema.TypeList,
			Optional: true,
			Elem:     &schema.Schema{Type: schema.TypeString},
		},
		"ingress": {
			Type:     schema.TypeList,
			Optional: true,
			Elem: &schema.Resource{
				Schema: map[string]*schema.Schema{
					"from_port": {Type: schema.TypeInt, Required: true},
				},
			},
		},
		"configuration": {
			Type:     schema.TypeMap,
			Optional: true,
			Elem: &schema.Resource{
				Schema: map[string]*schema.Schema{
					"mode": {Type: schema.TypeString, Required: true},
				},
			},
		},
	}

	src := `
resource "aws_vpc" "main" {
  cidr_block         = "10.0.0.0/16"
  enable_dns_support = true
  instance_count     = 3

  tags = {
    Name = "main"
  }

  azs = ["us-east-1a", "us-east-1b"]

  ingress {
    from_port = 80
  }
  ingress {
    from_port = 443
  }

  configuration {
    mode = "fast"
  }
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

	want := map[string]interface{}{
		"cidr_block":         "10.0.0.0/16",
		"enable_dns_support": true,
		"instance_count":     3,
		"tags": map[string]interface{}{
			"Name": "main",
		},
		"azs": []interface{}{"us-east-1a", "us-east-1b"},
		"ingress": []interface{}{
			map[string]interface{}{"from_port": 80},
			map[string]interface{}{"from_port": 443},
		},
		"configuration": map[string]interface{}{
			"mode": "fast",
		},
	}
	if diff := cmp.Diff(want, raw); diff != "" {
		t.Errorf("wrong decoded attributes (-want +got):\n%s", diff)
	}
}

func TestResourceDecodeAttrsAbsent(t *testing.T) {
	schemas := map[string]*schema.Schema{
		"cidr_block": {
			Type:     schema.TypeString,
			Required: true,
		},
		"enable_dns_support": {
			Type:     schema.TypeBool,
			Optional: true,
		},
	}

	// An attribute not written in the block must be absent from the
	// decoded map, not present with a null or zero value, so that the
	// validator can tell unset apart from explicitly set.
	src := `
resource "aws_vpc" "main" {
  cidr_block = "10.0.0.0/16"
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

	want := map[string]interface{}{
		"cidr_block": "10.0.0.0/16",
	}
	if diff := cmp.Diff(want, raw); diff != "" {
		t.Errorf("wrong decoded attributes (-want +got):\n%s", diff)
	}
}

func TestResourceDecodeAttrsUnwrittenBlocks(t *testing.T) {
	res := &schema.Resource{
		Schema: map[string]*schema.Schema{
			"cidr_block": {
				Type:          schema.TypeString,
				Optional:      true,
				ConflictsWith: []string{"ingress"},
			},
			"ingress": {
				Type:     schema.TypeList,
				Optional: true,
				Elem: &schema.Resource{
					Schema: map[string]*schema.Schema{
						"from_port": {Type: schema.TypeInt, Required: true},
					},
				},
			},
		},
	}

	// A block the author never wrote must be absent from the decoded
	// map, not present as an empty list, so the presence rules do not
	// count it as set.
	src := `
resource "aws_security_group" "main" {
  cidr_block = "10.0.0.0/16"
}
`
	parser := NewParser()
	file, diags := parser.ParseConfig([]byte(src), "main.tf")
	if diags.HasErrors() {
		t.Fatalf("parse: %s", diags.Err())
	}

	raw, diags := file.Resources[0].DecodeAttrs(res.Schema)
	if diags.HasErrors() {
		t.Fatalf("decode: %s", diags.Err())
	}

	if v, ok := raw["ingress"]; ok {
		t.Fatalf("unwritten block attribute present in decoded map as %#v", v)
	}
	want := map[string]interface{}{
		"cidr_block": "10.0.0.0/16",
	}
	if diff := cmp.Diff(want, raw); diff != "" {
		t.Errorf("wrong decoded attributes (-want +got):\n%s", diff)
	}

	// The written scalar must not conflict with the unwritten block.
	if _, diags := res.Validate(raw); diags.HasErrors() {
		t.Errorf("unexpected conflict with unwritten block: %s", diags.Err())
	}

	// A written block still decodes and still conflicts.
	src = `
resource "aws_security_group" "main" {
  cidr_block = "10.0.0.0/16"

  ingress {
    from_port = 80
  }
}
`
	file, diags = parser.ParseConfig([]byte(src), "both.tf")
	if diags.HasErrors() {
		t.Fatalf("parse: %s", diags.Err())
	}
	raw, diags = file.Resources[0].DecodeAttrs(res.Schema)
	if diags.HasErrors() {
		t.Fatalf("decode: %s", diags.Err())
	}
	if _, ok := raw["ingress"]; !ok {
		t.Fatal("written block attribute missing from decoded map")
	}
	if _, diags := res.Validate(raw); !diags.HasErrors() {
		t.Error("written block did not conflict with cidr_block")
	}
}

func testRegistry(t *testing.T) *synth.Registry {
	t.Helper()

	reg := synth.NewRegistry()
	reg.MustRegister(&synth.ResourceType{
		Name: "aws_vpc",
		Resource: &schema.Resource{
			Schema: map[string]*schema.Schema{
				"cidr_block": {
					Type:     schema.TypeString,
					Required: true,
				},
				"tags": {
					Type:     schema.TypeMap,
					Optional: true,
					Elem:     &schema.Schema{Type: schema.TypeString},
				},
			},
		},
		Outputs: []string{"id"},
	})
	reg.MustRegister(&synth.ResourceType{
		Name: "aws_subnet",
		Resource: &schema.Resource{
			Schema: map[string]*schema.Schema{
				"vpc_id": {
					Type:     schema.TypeString,
					Required: true,
				},
				"cidr_block": {
					Type:     schema.TypeString,
					Required: true,
				},
			},
		},
		Outputs: []string{"id"},
	})
	return reg
}

func TestSynthesizeFile(t *testing.T) {
	src := `
resource "aws_vpc" "main" {
  cidr_block = "10.0.0.0/16"

  tags = {
    Name = "main"
  }
}

resource "aws_subnet" "a" {
  vpc_id     = "${aws_vpc.main.id}"
  cidr_block = "10.0.1.0/24"
}
`
	parser := NewParser()
	file, diags := parser.ParseConfig([]byte(src), "main.tf")
	if diags.HasErrors() {
		t.Fatalf("parse: %s", diags.Err())
	}

	sess := synth.NewSession(testRegistry(t))
	diags = SynthesizeFile(sess, file)
	if diags.HasErrors() {
		t.Fatalf("synthesize: %s", diags.Err())
	}

	got, err := sess.Document().Bytes()
	if err != nil {
		t.Fatalf("marshal: %s", err)
	}

	want := `{
  "resource": {
    "aws_subnet": {
      "a": {
        "cidr_block": "10.0.1.0/24",
        "vpc_id": "${aws_vpc.main.id}"
      }
    },
    "aws_vpc": {
      "main": {
        "cidr_block": "10.0.0.0/16",
        "tags": {
          "Name": "main"
        }
      }
    }
  }
}
`
	if string(got) != want {
		t.Errorf("wrong document\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestSynthesizeFileSkipsBadBlocks(t *testing.T) {
	src := `
resource "aws_rocketship" "x" {
  thrust = "maximum"
}

resource "aws_vpc" "main" {
  cidr_block = "10.0.0.0/16"
}

resource "aws_subnet" "incomplete" {
  vpc_id = "${aws_vpc.main.id}"
}
`
	parser := NewParser()
	file, diags := parser.ParseConfig([]byte(src), "main.tf")
	if diags.HasErrors() {
		t.Fatalf("parse: %s", diags.Err())
	}

	sess := synth.NewSession(testRegistry(t))
	diags = SynthesizeFile(sess, file)
	if !diags.HasErrors() {
		t.Fatal("succeeded; want errors for the bad blocks")
	}

	msg := diags.Err().Error()
	if !strings.Contains(msg, "Unknown resource type") {
		t.Errorf("missing unknown type error in %q", msg)
	}
	if !strings.Contains(msg, "cidr_block") {
		t.Errorf("missing required attribute error in %q", msg)
	}

	// The good block in the middle still went through.
	if _, ok := sess.Document().Resource(addrs.Resource{Type: "aws_vpc", Name: "main"}); !ok {
		t.Error("valid block was not synthesized")
	}
	if sess.Document().Len() != 1 {
		t.Errorf("got %d document entries; want 1", sess.Document().Len())
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	parser := NewParser()
	_, diags := parser.LoadConfigFile("testdata/does-not-exist.tf")
	if !diags.HasErrors() {
		t.Fatal("succeeded; want read error")
	}
	if !strings.Contains(diags.Err().Error(), "Failed to read file") {
		t.Errorf("wrong error: %s", diags.Err())
	}
}

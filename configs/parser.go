// Package configs loads resource configurations from HCL or JSON
// source files and feeds them, as raw attribute maps, into a synthesis
// session. It is the file-based front end to the validation and
// synthesis engine; callers that already hold attribute maps in memory
// can skip it entirely.
package configs

import (
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/terrasynth/terrasynth/tfdiags"
)

// Parser is the main interface to read configuration files. It retains
// the source code of all files it has parsed so that diagnostics can
// render source snippets.
type Parser struct {
	p *hclparse.Parser
}

func NewParser() *Parser {
	return &Parser{
		p: hclparse.NewParser(),
	}
}

// LoadConfigFile reads the file at the given path and parses it as a
// config file. Files ending in ".json" are parsed as Terraform-style
// JSON; everything else is parsed as HCL native syntax.
func (p *Parser) LoadConfigFile(path string) (*File, tfdiags.Diagnostics) {
	var diags tfdiags.Diagnostics

	src, err := os.ReadFile(path)
	if err != nil {
		diags = diags.Append(&hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Failed to read file",
			Detail:   err.Error(),
		})
		return nil, diags
	}

	return p.ParseConfig(src, path)
}

// ParseConfig parses the given source buffer, named by filename for
// diagnostic purposes, into a File holding its resource blocks in
// declaration order.
func (p *Parser) ParseConfig(src []byte, filename string) (*File, tfdiags.Diagnostics) {
	var diags tfdiags.Diagnostics

	var body hcl.Body
	var hclDiags hcl.Diagnostics
	if strings.HasSuffix(filename, ".json") {
		var f *hcl.File
		f, hclDiags = p.p.ParseJSON(src, filename)
		if f != nil {
			body = f.Body
		}
	} else {
		var f *hcl.File
		f, hclDiags = p.p.ParseHCL(src, filename)
		if f != nil {
			body = f.Body
		}
	}
	diags = diags.Append(hclDiags)
	if body == nil {
		return nil, diags
	}

	file, contentDiags := parseBody(body)
	diags = diags.Append(contentDiags)
	return file, diags
}

// Sources returns the raw source code of every file parsed so far,
// keyed by filename, for use in rendering diagnostic snippets.
func (p *Parser) Sources() map[string][]byte {
	ret := make(map[string][]byte)
	for name, f := range p.p.Files() {
		ret[name] = f.Bytes
	}
	return ret
}

// fileSchema describes the top-level structure of a config file: any
// number of resource blocks, each with a type label and a name label.
var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{
			Type:       "resource",
			LabelNames: []string{"type", "name"},
		},
	},
}

func parseBody(body hcl.Body) (*File, tfdiags.Diagnostics) {
	var diags tfdiags.Diagnostics
	file := &File{}

	content, hclDiags := body.Content(fileSchema)
	diags = diags.Append(hclDiags)

	for _, block := range content.Blocks {
		switch block.Type {
		case "resource":
			file.Resources = append(file.Resources, &Resource{
				Type:      block.Labels[0],
				Name:      block.Labels[1],
				Config:    block.Body,
				DeclRange: block.DefRange,
			})
		}
	}

	return file, diags
}

// File holds the resource blocks of a single parsed configuration file
// in declaration order.
type File struct {
	Resources []*Resource
}

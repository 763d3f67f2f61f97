package modules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Location is where a resource block is declared.
type Location struct {
	FilePath  string
	StartLine int
	EndLine   int
}

// blockSchema matches any top-level Terraform block so the scan can
// iterate without evaluating bodies.
var blockSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "resource", LabelNames: []string{"type", "name"}},
		{Type: "module", LabelNames: []string{"name"}},
		{Type: "data", LabelNames: []string{"type", "name"}},
		{Type: "variable", LabelNames: []string{"name"}},
		{Type: "output", LabelNames: []string{"name"}},
		{Type: "locals", LabelNames: nil},
		{Type: "terraform", LabelNames: nil},
		{Type: "provider", LabelNames: []string{"name"}},
	},
}

// Locate scans the .tf files in dir for the declaration of
// resource "<resourceType>" "<resourceName>". Broken files are skipped
// rather than failing the scan.
func Locate(dir, resourceType, resourceName string) (*Location, error) {
	parser := hclparse.NewParser()

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".tf") {
			continue
		}
		path := filepath.Join(dir, f.Name())
		hclFile, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			continue
		}
		content, _, _ := hclFile.Body.PartialContent(blockSchema)
		for _, block := range content.Blocks {
			if block.Type != "resource" || len(block.Labels) != 2 {
				continue
			}
			if block.Labels[0] == resourceType && block.Labels[1] == resourceName {
				rng := block.DefRange
				return &Location{
					FilePath:  path,
					StartLine: rng.Start.Line,
					EndLine:   rng.End.Line,
				}, nil
			}
		}
	}
	return nil, fmt.Errorf("resource %s.%s not declared in %s", resourceType, resourceName, dir)
}

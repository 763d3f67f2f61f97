package modules

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// Discover walks rootDir for terragrunt.hcl files and builds a
// manifest from them, for trees that have no modules.json yet. The
// module key is the directory name, the source comes from the
// terraform block when one is present. Parse errors are best effort
// skips.
func Discover(rootDir string) (*Manifest, error) {
	parser := hclparse.NewParser()
	m := &Manifest{}

	err := filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == ".terraform" || info.Name() == ".terragrunt-cache" || info.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Name() != "terragrunt.hcl" {
			return nil
		}

		dir := filepath.Dir(path)
		rel, err := filepath.Rel(rootDir, dir)
		if err != nil || rel == "." {
			return nil
		}

		entry := Entry{Key: filepath.Base(dir), Dir: rel}
		if f, diags := parser.ParseHCLFile(path); diags == nil || !diags.HasErrors() {
			entry.Source = terraformSource(f.Body)
		}
		m.Modules = append(m.Modules, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// terraformSource pulls the source attribute out of a terraform block,
// if the body parses as native syntax and the value is a literal
// string.
func terraformSource(body hcl.Body) string {
	b, ok := body.(*hclsyntax.Body)
	if !ok {
		return ""
	}
	for _, block := range b.Blocks {
		if block.Type != "terraform" {
			continue
		}
		if attr, ok := block.Body.Attributes["source"]; ok {
			if v, err := attr.Expr.Value(nil); err == nil && v.Type() == cty.String {
				return v.AsString()
			}
		}
	}
	return ""
}

// SourceIsLocal reports whether a module source points into the local
// tree rather than a registry or VCS address.
func SourceIsLocal(source string) bool {
	return strings.HasPrefix(source, "./") || strings.HasPrefix(source, "../")
}

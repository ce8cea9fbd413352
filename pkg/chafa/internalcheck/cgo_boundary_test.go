package internalcheck

import (
	"go/parser"
	"go/token"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const (
	modulePath  = "github.com/termgfx/chafa-go"
	backendPath = modulePath + "/pkg/chafa/internal/backend"
)

func TestOnlyBackendImportsC(t *testing.T) {
	cfg := &packages.Config{
		Mode:  packages.NeedName | packages.NeedFiles,
		Tests: true,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	fset := token.NewFileSet()
	seen := make(map[string]bool)
	var findings []string
	for _, pkg := range pkgs {
		if pkg.PkgPath == backendPath {
			continue
		}
		// Files excluded by build tags are checked too, so the cgo build
		// cannot sneak an import past a stub build.
		files := append(append([]string{}, pkg.GoFiles...), pkg.IgnoredFiles...)
		for _, name := range files {
			if seen[name] || !strings.HasSuffix(name, ".go") {
				continue
			}
			seen[name] = true
			f, err := parser.ParseFile(fset, name, nil, parser.ImportsOnly)
			if err != nil {
				t.Fatalf("parse %s: %v", name, err)
			}
			for _, imp := range f.Imports {
				if path, _ := strconv.Unquote(imp.Path.Value); path == "C" {
					findings = append(findings, fset.Position(imp.Pos()).String())
				}
			}
		}
	}

	if len(findings) > 0 {
		t.Fatalf("import \"C\" outside %s:\n%s", backendPath, strings.Join(findings, "\n"))
	}
}

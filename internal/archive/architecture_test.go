package archive

import (
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// TestPublicPackagesStayFreeOfInternal ensures the exported pkg/ tree never
// reaches into internal/: algebra and scheme must stay consumable without
// the service, persistence, or archive layers.
func TestPublicPackagesStayFreeOfInternal(t *testing.T) {
	internalPrefix := "schemecore/internal"

	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports, Tests: true}
	pkgs, err := packages.Load(cfg, "schemecore/pkg/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	seen := make(map[string]struct{})
	for _, pkg := range pkgs {
		for importPath := range pkg.Imports {
			if importPath == internalPrefix || strings.HasPrefix(importPath, internalPrefix+"/") {
				seen[pkg.PkgPath+": "+importPath] = struct{}{}
			}
		}
	}

	if len(seen) > 0 {
		violations := make([]string, 0, len(seen))
		for v := range seen {
			violations = append(violations, v)
		}
		sort.Strings(violations)
		for _, v := range violations {
			t.Errorf("forbidden import of internal package: %s", v)
		}
		t.Fatalf("found %d forbidden imports of internal packages", len(violations))
	}
}

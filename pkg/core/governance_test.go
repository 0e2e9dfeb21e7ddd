//go:build governance

package core_test

import (
	"go/types"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// TestGovernance_CoreCohesion verifies that types in pkg/core are genuinely
// shared across packages. A type used by a single package belongs there.
//
// Run with: go test -tags governance ./pkg/core/
func TestGovernance_CoreCohesion(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports | packages.NeedTypes |
			packages.NeedTypesInfo | packages.NeedDeps,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	coreTypes := make(map[types.Object]string)
	for _, p := range pkgs {
		if p.PkgPath != modulePath+"/pkg/core" {
			continue
		}
		scope := p.Types.Scope()
		for _, name := range scope.Names() {
			if obj, ok := scope.Lookup(name).(*types.TypeName); ok && obj.Exported() {
				coreTypes[obj] = name
			}
		}
	}
	if len(coreTypes) == 0 {
		t.Fatal("Could not find pkg/core types")
	}

	// type name -> set of using packages
	usage := make(map[string]map[string]bool)
	for _, name := range coreTypes {
		usage[name] = make(map[string]bool)
	}

	for _, p := range pkgs {
		if p.PkgPath == modulePath+"/pkg/core" || strings.HasSuffix(p.PkgPath, "_test") || p.TypesInfo == nil {
			continue
		}
		for _, obj := range p.TypesInfo.Uses {
			if name, ok := coreTypes[obj]; ok {
				usage[name][strings.TrimPrefix(p.PkgPath, modulePath+"/")] = true
			}
		}
	}

	for typeName, users := range usage {
		if cohesionAllowlist[typeName] {
			continue
		}
		switch len(users) {
		case 0:
			t.Logf("WARNING: Unused Core Type: %s (consider deleting)", typeName)
		case 1:
			for user := range users {
				t.Errorf("COHESION VIOLATION: 'core.%s' is used ONLY by '%s'.\n"+
					"   Fix: Move type from pkg/core to %s.", typeName, user, user)
			}
		}
	}
}

// cohesionAllowlist holds types allowed a single user.
var cohesionAllowlist = map[string]bool{
	"ResultSet":  true, // produced by engines, folded into Result by the session
	"ResetError": true, // part of the error taxonomy
}

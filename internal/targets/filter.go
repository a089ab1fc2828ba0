package targets

import (
	"github.com/vk/cargopx/internal/metadata"
	"github.com/vk/cargopx/internal/unit"
)

// Filter keeps the units of plan that matter to scope: those generating a
// scope package or something a scope package depends on, dev dependencies
// included. An empty scope keeps everything. Plan order is preserved.
func Filter(plan []unit.CodegenUnit, scope []metadata.PackageID, ws *metadata.Workspace) []unit.CodegenUnit {
	if len(scope) == 0 {
		return plan
	}

	deps := ws.NewDependsCache()
	out := make([]unit.CodegenUnit, 0, len(plan))
	for _, u := range plan {
		if wanted(u.PackageID, scope, deps) {
			out = append(out, u)
		}
	}
	return out
}

func wanted(target metadata.PackageID, scope []metadata.PackageID, deps *metadata.DependsCache) bool {
	for _, id := range scope {
		if id == target || deps.DependsOn(id, target) {
			return true
		}
	}
	return false
}

package transformer

import (
	"strconv"
)

// fixupStage is the last pass before printing. Earlier stages injected
// identifiers under conventional names (_dec, _s, helper functions) and
// registered every occurrence with the hygiene scope; here each group whose
// name collides with a module binding is renamed, definition and uses
// together. Nothing else needs normalizing: stages rewrite the tree into
// printable shape as they go.
type fixupStage struct{}

func (*fixupStage) Name() string { return "fixup" }

func (*fixupStage) Enabled(ctx *Context) bool { return true }

func (*fixupStage) Transform(ctx *Context) error {
	if len(ctx.injectedOrder) == 0 {
		return nil
	}
	ctx.collectModuleNames()

	taken := make(map[string]struct{}, len(ctx.moduleNames)+len(ctx.injected))
	for name := range ctx.moduleNames {
		taken[name] = struct{}{}
	}
	for name := range ctx.injected {
		taken[name] = struct{}{}
	}

	for _, name := range ctx.injectedOrder {
		if _, collides := ctx.moduleNames[name]; !collides {
			continue
		}
		fresh := name
		for i := 1; ; i++ {
			fresh = name + strconv.Itoa(i)
			if _, inUse := taken[fresh]; !inUse {
				break
			}
		}
		taken[fresh] = struct{}{}
		for _, occurrence := range ctx.injected[name] {
			*occurrence = fresh
		}
	}
	return nil
}

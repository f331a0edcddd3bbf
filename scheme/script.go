package scheme

import (
	"context"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/layerfilter/layer"
	"github.com/rotisserie/eris"
)

var ErrScriptPolicy = eris.New("scheme: script policy")

// scriptTimeout bounds evaluation of every pair of one scheme together.
var scriptTimeout = 2 * time.Second

const policyDispatchScript = `
__result = collide(__a, __b)
`

// evalScriptPolicy runs a script's collide(a, b) once per ordered pair of object
// layers and freezes the answers into a matrix. Layers are passed as maps with
// name, index and broad_phase keys. A script still running when scriptTimeout
// expires fails the build.
func evalScriptPolicy(src []byte, table *layer.Table) (*layer.PairMatrix, error) {
	script := tengo.NewScript(append(append([]byte(nil), src...), policyDispatchScript...))
	_ = script.Add("__a", map[string]any{})
	_ = script.Add("__b", map[string]any{})
	_ = script.Add("__result", false)

	script.SetImports(stdlib.GetModuleMap("text", "math", "fmt", "enum"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, eris.Wrap(err, "compile")
	}

	n := table.NumObjectLayers()
	args := make([]map[string]any, n)
	for i := uint32(0); i < n; i++ {
		ol := layer.ObjectLayer(i)
		bp := table.BroadPhaseLayer(ol)
		args[i] = map[string]any{
			"name":        table.ObjectLayerName(ol),
			"index":       int(i),
			"broad_phase": table.BroadPhaseLayerName(bp),
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), scriptTimeout)
	defer cancel()

	return layer.NewPairMatrixFunc(n, func(a, b layer.ObjectLayer) (bool, error) {
		if err := compiled.Set("__a", args[a]); err != nil {
			return false, err
		}
		if err := compiled.Set("__b", args[b]); err != nil {
			return false, err
		}
		if err := compiled.RunContext(ctx); err != nil {
			if ctx.Err() != nil {
				return false, eris.Wrapf(ErrScriptPolicy, "collide(%s, %s) did not finish within %s",
					args[a]["name"], args[b]["name"], scriptTimeout)
			}
			return false, err
		}
		res := compiled.Get("__result")
		if res.ValueType() != "bool" {
			return false, eris.Wrapf(ErrScriptPolicy, "collide(%s, %s) returned %s, want bool",
				args[a]["name"], args[b]["name"], res.ValueType())
		}
		return res.Bool(), nil
	})
}

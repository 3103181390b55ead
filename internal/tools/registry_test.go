package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedTool struct {
	name string
	res  Result
}

func (f fixedTool) Name() string                         { return f.name }
func (f fixedTool) Invoke(context.Context, Args) Result { return f.res }

type panicTool struct{}

func (panicTool) Name() string                         { return "boom" }
func (panicTool) Invoke(context.Context, Args) Result { panic("tool exploded") }

func TestRegistryDispatch(t *testing.T) {
	r := NewRegistry()
	r.Register(fixedTool{name: "echo", res: Ok("done")})

	res := r.Dispatch(context.Background(), "echo", Args{})
	assert.True(t, res.OK)
	assert.Equal(t, "done", res.Text)
}

func TestRegistryDispatchUnknownTool(t *testing.T) {
	r := NewRegistry()

	res := r.Dispatch(context.Background(), "nonexistent", Args{})
	assert.False(t, res.OK)
	assert.Equal(t, "I don't have a tool called 'nonexistent'.", res.Text)
}

func TestRegistryDispatchRecoversPanic(t *testing.T) {
	r := NewRegistry()
	r.Register(panicTool{})

	var res Result
	require.NotPanics(t, func() {
		res = r.Dispatch(context.Background(), "boom", Args{})
	})
	assert.False(t, res.OK)
	assert.Equal(t, "Something went wrong while running boom.", res.Text)
}

func TestRegistryNames(t *testing.T) {
	r := NewRegistry()
	r.Register(fixedTool{name: "zeta"})
	r.Register(fixedTool{name: "alpha"})

	assert.Equal(t, []string{"alpha", "zeta"}, r.Names())
}

package toolbox

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// ToolBox is a registry of tools keyed by name.
type ToolBox struct {
	tools map[string]Tool
}

// New creates a new ToolBox ready for use.
func New() *ToolBox {
	return &ToolBox{
		tools: make(map[string]Tool),
	}
}

// Register adds one or more tools to the ToolBox. If a tool with the same name
// already exists, it is replaced.
func (tb *ToolBox) Register(tools ...Tool) {
	for _, t := range tools {
		tb.tools[t.Name] = t
	}
}

// Get returns a tool by name and a boolean indicating whether it was found.
func (tb *ToolBox) Get(name string) (Tool, bool) {
	t, ok := tb.tools[name]
	return t, ok
}

// Tools returns all registered tools sorted by name.
func (tb *ToolBox) Tools() []Tool {
	result := make([]Tool, 0, len(tb.tools))
	for _, t := range tb.tools {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Call executes the named tool. If the tool is not found or the handler
// returns an error, the result has IsError set.
func (tb *ToolBox) Call(ctx context.Context, name string, args json.RawMessage) Result {
	t, ok := tb.tools[name]
	if !ok {
		return Result{Content: fmt.Sprintf("tool not found: %s", name), IsError: true}
	}

	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	result, err := t.Handler(ctx, args)
	if err != nil {
		return Result{Content: err.Error(), IsError: true}
	}

	return Result{Content: result}
}

package builtin

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/command"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/value"
)

// PagerViewerName is the Value.Interactive.Viewer tag for the Pager /
// ManPage sub-state (spec §4.3).
const PagerViewerName = "pager"

// LessCommand implements `less`: it reads a file (or the piped stdin value's
// text) and installs a Pager viewer over the content.
type LessCommand struct{}

func (LessCommand) Name() string { return "less" }

func (LessCommand) Execute(args []string, ctx *command.CommandContext) (value.Value, error) {
	if in := ctx.TakeStdin(); in != nil {
		return value.InteractiveValue(PagerViewerName, value.String(in.ToText())), nil
	}

	var path string
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			path = arg
		}
	}
	if path == "" {
		return value.InteractiveValue(PagerViewerName, value.String("")), nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(ctx.State.Cwd, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return value.Value{}, err
	}
	return value.InteractiveValue(PagerViewerName, value.String(string(data))), nil
}

// PagerSearch finds all 0-based line indices in content whose text contains
// pattern literally (spec §4.3: "/`-search (literal)"`).
func PagerSearch(content, pattern string) []int {
	if pattern == "" {
		return nil
	}
	var matches []int
	for i, line := range strings.Split(content, "\n") {
		if strings.Contains(line, pattern) {
			matches = append(matches, i)
		}
	}
	return matches
}

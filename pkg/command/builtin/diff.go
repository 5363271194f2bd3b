package builtin

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/command"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/value"
)

// DiffViewerName is the Value.Interactive.Viewer tag for the DiffViewer
// sub-state (spec §4.3).
const DiffViewerName = "diff_viewer"

// DiffCommand implements `diff`, shelling out to `git diff` and splitting the
// unified output per file into Value::DiffFile entries, one hunk list apiece.
type DiffCommand struct{}

func (DiffCommand) Name() string { return "diff" }

func (DiffCommand) Execute(args []string, ctx *command.CommandContext) (value.Value, error) {
	gitArgs := append([]string{"diff", "--no-color"}, args...)
	cmd := exec.Command("git", gitArgs...)
	cmd.Dir = ctx.State.Cwd
	out, err := cmd.Output()
	if err != nil {
		return value.Value{}, fmt.Errorf("diff: %w", err)
	}

	files := splitUnifiedDiff(string(out))
	items := make([]value.Value, len(files))
	for i, f := range files {
		items[i] = value.DiffFileValue(f)
	}
	return value.InteractiveValue(DiffViewerName, value.List(items)), nil
}

// splitUnifiedDiff breaks a `git diff` unified-format stream into one
// DiffFile per "diff --git a/... b/..." section, with hunks split on "@@".
func splitUnifiedDiff(out string) []*value.DiffFile {
	if strings.TrimSpace(out) == "" {
		return nil
	}

	var files []*value.DiffFile
	var cur *value.DiffFile
	var hunkLines []string

	flushHunk := func() {
		if cur != nil && len(hunkLines) > 0 {
			cur.Hunks = append(cur.Hunks, strings.Join(hunkLines, "\n"))
			hunkLines = nil
		}
	}

	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			flushHunk()
			if cur != nil {
				files = append(files, cur)
			}
			cur = &value.DiffFile{Path: diffPathFromHeader(line)}
		case strings.HasPrefix(line, "@@"):
			flushHunk()
			hunkLines = append(hunkLines, line)
		default:
			if cur != nil && hunkLines != nil {
				hunkLines = append(hunkLines, line)
			}
		}
	}
	flushHunk()
	if cur != nil {
		files = append(files, cur)
	}
	return files
}

func diffPathFromHeader(line string) string {
	fields := strings.Fields(line)
	for _, f := range fields {
		if strings.HasPrefix(f, "b/") {
			return strings.TrimPrefix(f, "b/")
		}
	}
	if len(fields) > 0 {
		return fields[len(fields)-1]
	}
	return ""
}

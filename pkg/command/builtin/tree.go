package builtin

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/command"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/value"
)

// TreeViewerName is the Value.Interactive.Viewer tag for the TreeBrowser
// sub-state (spec §4.3).
const TreeViewerName = "tree_browser"

// TreeCommand implements `tree`, returning a Value::Interactive wrapping the
// root directory's immediate children as a List<FileEntry>. Only that one
// level is loaded; nothing loads deeper levels when the TreeBrowser viewer
// expands a directory.
type TreeCommand struct{}

func (TreeCommand) Name() string { return "tree" }

func (TreeCommand) Execute(args []string, ctx *command.CommandContext) (value.Value, error) {
	dir := ctx.State.Cwd
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			dir = arg
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(ctx.State.Cwd, dir)
			}
		}
	}

	entries, err := LoadTreeChildren(dir)
	if err != nil {
		return value.Value{}, err
	}
	return value.InteractiveValue(TreeViewerName, value.List(entries)), nil
}

// LoadTreeChildren lists the immediate FileEntry children of dir, sorted
// directories-first then naturally by name. TreeCommand is its only caller.
func LoadTreeChildren(dir string) ([]value.Value, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	out := make([]value.Value, 0, len(dirEntries))
	for _, e := range dirEntries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, value.FileEntryValue(&value.FileEntry{
			Name:     e.Name(),
			Path:     filepath.Join(dir, e.Name()),
			IsDir:    e.IsDir(),
			Size:     info.Size(),
			Modified: info.ModTime(),
		}))
	}

	sortFileEntriesDirsFirst(out)
	return out, nil
}

func sortFileEntriesDirsFirst(items []value.Value) {
	stableSort2(items, func(a, b value.Value) int {
		if a.FileEntry == nil || b.FileEntry == nil {
			return 0
		}
		if a.FileEntry.IsDir != b.FileEntry.IsDir {
			if a.FileEntry.IsDir {
				return -1
			}
			return 1
		}
		return value.NaturalCompare(a.FileEntry.Name, b.FileEntry.Name)
	})
}

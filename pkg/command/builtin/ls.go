package builtin

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/command"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/value"
)

// LsCommand implements `ls`, returning a List<FileEntry> so downstream
// `sort`/`wc` stages preserve type (spec §4.4 pipelining contract).
type LsCommand struct{}

func (LsCommand) Name() string { return "ls" }

func (LsCommand) Execute(args []string, ctx *command.CommandContext) (value.Value, error) {
	dir := ctx.State.Cwd
	showAll := false
	for _, arg := range args {
		switch {
		case arg == "-a" || arg == "-la" || arg == "-al" || arg == "--all":
			showAll = true
		case !strings.HasPrefix(arg, "-"):
			dir = arg
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(ctx.State.Cwd, dir)
			}
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return value.Value{}, err
	}

	items := make([]value.Value, 0, len(entries))
	for _, e := range entries {
		if !showAll && strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		items = append(items, value.FileEntryValue(&value.FileEntry{
			Name:     e.Name(),
			Path:     filepath.Join(dir, e.Name()),
			IsDir:    e.IsDir(),
			Size:     info.Size(),
			Modified: info.ModTime(),
		}))
	}

	return value.List(items), nil
}

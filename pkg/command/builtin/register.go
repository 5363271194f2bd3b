package builtin

import "github.com/Deep-ai-inc/nexus-sub000/pkg/command"

// RegisterAll installs every kernel command onto reg (spec §6.6 CLI surface:
// "the registered kernel commands (ls, ps, git, sort, wc, top, less, tree,
// …)").
func RegisterAll(reg *command.Registry) error {
	cmds := []command.Command{
		LsCommand{},
		PsCommand{},
		GitCommand{},
		SortCommand{},
		WcCommand{},
		TopCommand{},
		LessCommand{},
		TreeCommand{},
		DiffCommand{},
	}
	for _, c := range cmds {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Package command defines the structured-command contract consumed by the
// shell core and the registry used to classify a command line's head token
// as Kernel vs External. The registry is a named, interface-typed unit of
// work (Register/Get/List), swapped from periodic collection to one-shot
// pipeline execution.
package command

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/value"
)

// State carries the shell-wide context a command can observe: working
// directory and environment. It is guarded by a mutex in the owning Shell
// Widget (spec §5, "Shared resources") — commands only ever see a
// already-locked snapshot handed to them via CommandContext.
type State struct {
	Cwd string
	Env map[string]string
}

// CommandContext carries the current working directory, environment, and an
// optional inbound Value (piped stdin) per spec §4.4/§6.1.
type CommandContext struct {
	State State
	Stdin *value.Value
}

// TakeStdin removes and returns the piped input value, matching the Rust
// ctx.stdin.take() semantics: a command may only consume stdin once.
func (c *CommandContext) TakeStdin() *value.Value {
	v := c.Stdin
	c.Stdin = nil
	return v
}

// Command is a pure function (args, context) -> Result<Value, Error> plus a
// name, per spec §6.1. Implementations live in pkg/command/builtin.
type Command interface {
	Name() string
	Execute(args []string, ctx *CommandContext) (value.Value, error)
}

// Registry tracks the set of kernel commands available for classification
// (spec §4.1 "Classification": a command string is Kernel iff its head
// token names a registered structured command).
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

// NewRegistry returns an empty registry ready for command registration.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds a command to the registry. It returns an error if a command
// with the same name is already registered.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("command %q already registered", name)
	}
	r.commands[name] = c
	return nil
}

// Get returns the command with the given name, or false if not found.
func (r *Registry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.commands[name]
	return c, ok
}

// IsKernel reports whether name identifies a registered structured command
// — the classification test used by the Shell Widget's execute().
func (r *Registry) IsKernel(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// List returns a sorted slice of all registered command names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

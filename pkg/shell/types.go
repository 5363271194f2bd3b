package shell

// ShellType identifies the interactive login shell running the PTY side of
// an external command, used to pick a shell-appropriate prompt/quoting
// convention when building argv for `exec.Command`.
type ShellType string

const (
	Bash ShellType = "bash"
	Zsh  ShellType = "zsh"
	Fish ShellType = "fish"
	Ksh  ShellType = "ksh"
)

// Path returns the binary name to exec for this shell type.
func (s ShellType) Path() string {
	return string(s)
}

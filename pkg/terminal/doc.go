/*
Package terminal implements the simulated shell of a webdesk session.

A Terminal keeps an output buffer, a current directory and a command
history, and runs a fixed set of built-in commands against the session's
vfs.Store. It is not a real shell: input is split on whitespace, there are
no pipes, globbing or variables, and scripts are interpreted line by line
from a small whitelist of statements, with each line's output staggered
through a timer.Scheduler to look like real execution.

Example usage:

	term := terminal.New(store, terminal.Config{})
	term.Execute("mkdir projects")
	term.Execute("cd projects")
	for _, line := range term.Lines() {
		fmt.Println(line)
	}
*/
package terminal

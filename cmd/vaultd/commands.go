package main

import (
	"github.com/urfave/cli/v3"
)

// getCommands assembles every operator-facing command, grouped by concern
// the way the teacher splits commands.go/system_commands.go/key_commands.go.
func getCommands(version string) []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getSystemCommands(version)...)
	cmds = append(cmds, getSealCommands()...)
	cmds = append(cmds, getMaintenanceCommands()...)
	return cmds
}

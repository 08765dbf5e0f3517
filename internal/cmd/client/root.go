package client

import (
	"github.com/spf13/cobra"
)

// NewRoot constructs a root Cobra command for the listx client.
func NewRoot(baseURL BaseURLFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "listx",
		Short: "listx client commands",
	}
	AddCommands(root, baseURL)
	return root
}

// AddCommands registers the client commands on root.
func AddCommands(root *cobra.Command, baseURL BaseURLFunc) {
	root.AddCommand(
		NewExecCommand(),
		NewFilterCommand(),
		NewWhereCommand(),
		NewCommandsCommand(),
		NewHealthCommand(),
		NewNamespaceCommand(baseURL),
	)
}

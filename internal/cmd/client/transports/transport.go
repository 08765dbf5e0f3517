// Package transports provides pluggable transport implementations for the CLI.
package transports

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"
)

// CommandTransport abstracts the transport used by the CLI.
type CommandTransport interface {
	// Execute runs args (command name first) in namespace ns and returns the
	// reply in the listx.v1 wire form.
	Execute(ctx context.Context, ns string, args []string) (*structpb.Value, error)
	// Health returns the serving status reported by the server.
	Health(ctx context.Context) (string, error)
}

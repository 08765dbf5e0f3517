package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	listxv1 "github.com/rzbill/listx/api/listx/v1"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// grpcAddrFromEnv returns the gRPC server address from LISTX_GRPC or a default.
func grpcAddrFromEnv() string {
	if addr := os.Getenv("LISTX_GRPC"); addr != "" {
		return addr
	}
	return "127.0.0.1:50051"
}

// dialGRPCContext creates a client for the listx gRPC endpoint with insecure
// transport for local/dev. The connection is established lazily.
func dialGRPCContext(_ context.Context) (*grpc.ClientConn, error) {
	return grpc.NewClient(grpcAddrFromEnv(), grpc.WithTransportCredentials(insecure.NewCredentials()))
}

// printValue renders a reply the way redis-cli does, or as protojson.
func printValue(w io.Writer, v *structpb.Value, asJSON bool) error {
	if asJSON {
		b, err := protojson.Marshal(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}
	_, err := fmt.Fprintln(w, formatValue(v, ""))
	return err
}

func formatValue(v *structpb.Value, indent string) string {
	if n, ok := listxv1.AsInteger(v); ok {
		return fmt.Sprintf("(integer) %d", n)
	}
	if s, ok := listxv1.AsStatus(v); ok {
		return s
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return fmt.Sprintf("%q", k.StringValue)
	case *structpb.Value_ListValue:
		items := k.ListValue.GetValues()
		if len(items) == 0 {
			return "(empty array)"
		}
		var b strings.Builder
		for i, item := range items {
			if i > 0 {
				b.WriteString("\n" + indent)
			}
			prefix := fmt.Sprintf("%d) ", i+1)
			b.WriteString(prefix + formatValue(item, indent+strings.Repeat(" ", len(prefix))))
		}
		return b.String()
	default:
		return "(nil)"
	}
}

// errorText prefers the server's message over the gRPC status decoration.
func errorText(err error) string {
	if st, ok := status.FromError(err); ok {
		return st.Message()
	}
	return err.Error()
}

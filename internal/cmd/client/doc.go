// Package client provides the `listx` command-line client.
//
// The CLI talks to the listx gRPC and HTTP endpoints to run commands from a
// terminal. It is primarily intended for developers and operators.
//
// # Address configuration
//
// The HTTP base URL is discovered by the application that embeds the
// commands via a BaseURLFunc. When using the standalone binary, it
// defaults to http://127.0.0.1:8080 (LISTX_HTTP). The gRPC address is read
// from the LISTX_GRPC environment variable (default 127.0.0.1:50051).
//
// Usage
//
//	listx exec RPUSH readings 3 7 10 11 x
//	listx filter readings in-range 5 10       # (integer) 2
//	listx filter readings all -inf +inf
//	listx where readings small 'numeric && num < 8'
//	listx exec LRANGE in-range 0 -1 --json
//
//	listx namespace create --name metrics
//	listx namespace list
//	listx health
//
// Notes
//
//   - exec, filter and where use the gRPC CommandService; errors are printed
//     as "(error) <message>" and the process exits non-zero.
//   - namespace commands use the HTTP API.
package client

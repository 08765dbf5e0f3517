package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"

	listxv1 "github.com/rzbill/listx/api/listx/v1"
	transports "github.com/rzbill/listx/internal/cmd/client/transports"
	"github.com/spf13/cobra"
)

// BaseURLFunc provides the base HTTP API URL (e.g., from env or flag).
type BaseURLFunc func() string

func getTransport() transports.CommandTransport {
	return transports.NewGrpcTransport(dialGRPCContext)
}

// runCommand executes args and prints the reply. Server errors are printed
// as "(error) ..." and returned so the process exits non-zero.
func runCommand(cmd *cobra.Command, args []string) error {
	ns, _ := cmd.Flags().GetString("namespace")
	asJSON, _ := cmd.Flags().GetBool("json")
	v, err := getTransport().Execute(cmd.Context(), ns, args)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "(error)", errorText(err))
		return errors.New(errorText(err))
	}
	return printValue(cmd.OutOrStdout(), v, asJSON)
}

func addCommandFlags(c *cobra.Command) {
	c.Flags().StringP("namespace", "n", "default", "Namespace")
	c.Flags().Bool("json", false, "Print the raw reply as JSON")
	c.SilenceUsage = true
	c.SilenceErrors = true
}

// NewExecCommand constructs `exec CMD [ARG...]`, a raw command runner.
func NewExecCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "exec COMMAND [ARG...]",
		Short: "Run any command, e.g. exec LRANGE readings 0 -1",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCommand,
	}
	addCommandFlags(c)
	return c
}

// NewFilterCommand constructs `filter SRC DST MIN MAX`.
func NewFilterCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "filter SOURCE DESTINATION MIN MAX",
		Short: "Copy integers within [MIN, MAX] from SOURCE into DESTINATION (bounds accept -inf/+inf)",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, append([]string{"LIST_EXTEND.FILTER"}, args...))
		},
	}
	addCommandFlags(c)
	return c
}

// NewWhereCommand constructs `where SRC DST EXPR`.
func NewWhereCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "where SOURCE DESTINATION EXPR",
		Short: "Copy elements matching a CEL expression over value, num, numeric and index",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, append([]string{"LIST_EXTEND.WHERE"}, args...))
		},
	}
	addCommandFlags(c)
	return c
}

// NewCommandsCommand constructs `commands`, a table of the server's command
// metadata built from COMMAND.
func NewCommandsCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "commands",
		Short: "List server commands with arity, flags and key positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ns, _ := cmd.Flags().GetString("namespace")
			v, err := getTransport().Execute(cmd.Context(), ns, []string{"COMMAND"})
			if err != nil {
				return errors.New(errorText(err))
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tARITY\tFLAGS\tFIRST\tLAST\tSTEP")
			for _, entry := range v.GetListValue().GetValues() {
				f := entry.GetListValue().GetValues()
				if len(f) < 6 {
					return fmt.Errorf("unexpected COMMAND entry: %v", entry)
				}
				var flags []string
				for _, fl := range f[2].GetListValue().GetValues() {
					st, _ := listxv1.AsStatus(fl)
					flags = append(flags, st)
				}
				arity, _ := listxv1.AsInteger(f[1])
				first, _ := listxv1.AsInteger(f[3])
				last, _ := listxv1.AsInteger(f[4])
				step, _ := listxv1.AsInteger(f[5])
				fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%d\t%d\n", f[0].GetStringValue(), arity, strings.Join(flags, ","), first, last, step)
			}
			return w.Flush()
		},
	}
	c.Flags().StringP("namespace", "n", "default", "Namespace")
	c.SilenceUsage = true
	return c
}

// NewHealthCommand constructs `health`.
func NewHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health over gRPC",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := getTransport().Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "status:", st)
			return nil
		},
	}
}

// NewNamespaceCommand constructs the `namespace` group backed by the HTTP API.
func NewNamespaceCommand(baseURL BaseURLFunc) *cobra.Command {
	nsCmd := &cobra.Command{Use: "namespace", Short: "Namespace operations"}
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create namespace",
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, _ := cmd.Flags().GetString("name")
			b, _ := json.Marshal(map[string]string{"namespace": name})
			resp, err := http.Post(baseURL()+"/v1/ns/create", "application/json", bytes.NewReader(b))
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			_, _ = io.Copy(io.Discard, resp.Body)
			fmt.Fprintln(cmd.OutOrStdout(), "status:", resp.Status)
			return nil
		},
	}
	createCmd.Flags().String("name", "default", "Namespace name")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List namespaces",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := http.Get(baseURL() + "/v1/ns")
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("list namespaces: %s", resp.Status)
			}
			var out struct {
				Namespaces []struct {
					Name          string `json:"name"`
					MaxListLength int64  `json:"maxListLength"`
				} `json:"namespaces"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				return err
			}
			for _, ns := range out.Namespaces {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\tmaxListLength=%d\n", ns.Name, ns.MaxListLength)
			}
			return nil
		},
	}
	nsCmd.AddCommand(createCmd, listCmd)
	return nsCmd
}

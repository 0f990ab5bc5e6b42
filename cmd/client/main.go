package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var api string

func main() {
	root := &cobra.Command{
		Use:   "deltarank-client",
		Short: "Inject mutations into a deltarank worker and inspect its ranks",
	}
	root.PersistentFlags().StringVar(&api, "api", "http://127.0.0.1:1234", "worker api address")

	root.AddCommand(edgeCmd(), rankCmd(), getCmd(), loadCmd(), statsCmd(), dotCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func edgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edge",
		Short: "Inject edge mutations",
	}
	add := &cobra.Command{
		Use:   "add SRC DST",
		Short: "Add one edge instance",
		Args:  cobra.ExactArgs(2),
		RunE:  func(_ *cobra.Command, args []string) error { return sendEdge(args, 1) },
	}
	del := &cobra.Command{
		Use:   "del SRC DST",
		Short: "Remove one edge instance",
		Args:  cobra.ExactArgs(2),
		RunE:  func(_ *cobra.Command, args []string) error { return sendEdge(args, -1) },
	}
	cmd.AddCommand(add, del)
	return cmd
}

func sendEdge(args []string, delta int64) error {
	src, err := parseNode(args[0])
	if err != nil {
		return err
	}
	dst, err := parseNode(args[1])
	if err != nil {
		return err
	}
	return postJSON("/edges", []map[string]any{
		{"source": src, "dest": dst, "delta": delta},
	})
}

func rankCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rank NODE DELTA",
		Short: "Inject an a-priori rank adjustment",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			node, err := parseNode(args[0])
			if err != nil {
				return err
			}
			delta, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("delta must be a signed integer: %v", err)
			}
			return postJSON("/ranks", []map[string]any{
				{"node": node, "delta": delta},
			})
		},
	}
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [NODE]",
		Short: "Print current rank(s) of the worker's partition",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := "/ranks"
			if len(args) == 1 {
				node, err := parseNode(args[0])
				if err != nil {
					return err
				}
				path = fmt.Sprintf("/ranks/%d", node)
			}
			return printGet(path)
		},
	}
}

func loadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load FILE",
		Short: "Upload a plain-text edge list as one initial burst",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			contents, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			resp, err := http.Post(api+"/graph", "text/plain", bytes.NewReader(contents))
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			return printResponse(resp)
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print convergence statistics",
		RunE: func(_ *cobra.Command, _ []string) error {
			return printGet("/stats")
		},
	}
}

func dotCmd() *cobra.Command {
	var out string
	var svg bool
	cmd := &cobra.Command{
		Use:   "dot",
		Short: "Download the current graph snapshot",
		RunE: func(_ *cobra.Command, _ []string) error {
			path := "/graph.dot"
			if svg {
				path = "/graph.svg"
			}
			resp, err := http.Get(api + path)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("server returned %s", resp.Status)
			}
			blob, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			if out == "" {
				fmt.Print(string(blob))
				return nil
			}
			return os.WriteFile(out, blob, 0644)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&svg, "svg", false, "render as svg instead of dot")
	return cmd
}

func parseNode(arg string) (uint32, error) {
	node, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("node id must be a non-negative integer: %v", err)
	}
	return uint32(node), nil
}

func postJSON(path string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := http.Post(api+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return printResponse(resp)
}

func printGet(path string) error {
	resp, err := http.Get(api + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("server returned %s: %s", resp.Status, string(body))
	}
	fmt.Println(string(body))
	return nil
}

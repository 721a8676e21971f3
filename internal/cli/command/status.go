// Package command provides CLI command definitions for leaklab-cli.
package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/leaklab-go/internal/cli/connection"
	"github.com/yndnr/leaklab-go/internal/cli/output"
)

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show server memory status",
		Action: serverStatus,
	}
}

// memoryResult mirrors the server's memory payload.
type memoryResult struct {
	HeapAllocBytes uint64 `json:"heap_alloc_bytes"`
	HeapSysBytes   uint64 `json:"heap_sys_bytes"`
	HeapObjects    uint64 `json:"heap_objects"`
	SysBytes       uint64 `json:"sys_bytes"`
	TotalAllocated uint64 `json:"total_alloc_bytes"`
	NumGC          uint32 `json:"num_gc"`
	Goroutines     int    `json:"goroutines"`
	RSSBytes       uint64 `json:"rss_bytes"`
}

func serverStatus(c *cli.Context) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := client.Get(ctx, "/memory")
	if err != nil {
		PrintError("status request failed: %v", err)
		return fmt.Errorf("server unreachable")
	}

	var result memoryResult
	if err := connection.ParseEnvelope(resp, &result); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON:
		formatter := &output.JSONFormatter{}
		return formatter.Format(os.Stdout, result)
	default:
		fmt.Printf("Server Memory\n")
		fmt.Printf("=============\n\n")
		fmt.Printf("Target:       %s\n", client.BaseURL())
		fmt.Printf("Heap alloc:   %.1f MB\n", float64(result.HeapAllocBytes)/1024/1024)
		fmt.Printf("Heap sys:     %.1f MB\n", float64(result.HeapSysBytes)/1024/1024)
		fmt.Printf("Heap objects: %d\n", result.HeapObjects)
		fmt.Printf("Total alloc:  %.1f MB\n", float64(result.TotalAllocated)/1024/1024)
		fmt.Printf("GC cycles:    %d\n", result.NumGC)
		fmt.Printf("Goroutines:   %d\n", result.Goroutines)
		if result.RSSBytes > 0 {
			fmt.Printf("RSS:          %.1f MB\n", float64(result.RSSBytes)/1024/1024)
		}
		return nil
	}
}

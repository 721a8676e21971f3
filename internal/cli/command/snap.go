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

// SnapCommand returns the snap subcommand group.
func SnapCommand() *cli.Command {
	return &cli.Command{
		Name:  "snap",
		Usage: "Heap snapshot commands",
		Subcommands: []*cli.Command{
			{
				Name:   "once",
				Usage:  "Capture a single heap snapshot",
				Action: snapOnce,
			},
			{
				Name:  "every",
				Usage: "Capture a series of snapshots from the client side",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "times",
						Aliases: []string{"n"},
						Usage:   "Number of snapshots to capture",
						Value:   3,
					},
					&cli.DurationFlag{
						Name:    "interval",
						Aliases: []string{"i"},
						Usage:   "Delay between captures",
						Value:   5 * time.Second,
					},
				},
				Action: snapEvery,
			},
			{
				Name:   "list",
				Usage:  "List snapshot files on the server",
				Action: snapList,
			},
			{
				Name:  "auto",
				Usage: "Server-side automatic snapshot schedule",
				Subcommands: []*cli.Command{
					{
						Name:  "start",
						Usage: "Start the automatic snapshot schedule",
						Flags: []cli.Flag{
							&cli.DurationFlag{
								Name:    "interval",
								Aliases: []string{"i"},
								Usage:   "Capture interval (server default when omitted)",
							},
							&cli.BoolFlag{
								Name:  "gc",
								Usage: "Run a GC before each capture",
							},
						},
						Action: snapAutoStart,
					},
					{
						Name:   "stop",
						Usage:  "Stop the automatic snapshot schedule",
						Action: snapAutoStop,
					},
					{
						Name:   "status",
						Usage:  "Show the automatic snapshot schedule status",
						Action: snapAutoStatus,
					},
				},
			},
		},
	}
}

// snapshotWriteResult mirrors the server's snapshot write payload.
type snapshotWriteResult struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
}

// snapshotListResult mirrors the server's snapshot list payload.
type snapshotListResult struct {
	Dir   string   `json:"dir"`
	Files []string `json:"files"`
	Count int      `json:"count"`
}

// autoStatusResult mirrors the server's auto schedule payload.
type autoStatusResult struct {
	Running         bool     `json:"running"`
	IntervalSeconds float64  `json:"interval_seconds"`
	Files           []string `json:"files"`
	Count           int      `json:"count"`
}

func captureOne(ctx context.Context, client *connection.HTTPClient) (*snapshotWriteResult, error) {
	resp, err := client.Post(ctx, "/snapshots", nil)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	var result snapshotWriteResult
	if err := connection.ParseEnvelope(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func snapOnce(c *cli.Context) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	flags := ParseGlobalFlags(c)

	if output.Format(flags.Output) == output.FormatJSON {
		result, err := captureOne(ctx, client)
		if err != nil {
			return err
		}
		formatter := &output.JSONFormatter{}
		return formatter.Format(os.Stdout, result)
	}

	spinner := output.NewSpinner(os.Stderr, "Capturing heap snapshot...")
	spinner.Start()

	result, err := captureOne(ctx, client)
	if err != nil {
		spinner.Fail("snapshot failed")
		return err
	}

	spinner.Success(fmt.Sprintf("Snapshot written: %s (%s)",
		result.Path, output.FormatBytes(result.SizeBytes)))
	return nil
}

func snapEvery(c *cli.Context) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	times := c.Int("times")
	if times < 1 {
		return fmt.Errorf("--times must be at least 1")
	}
	interval := c.Duration("interval")
	if interval <= 0 {
		return fmt.Errorf("--interval must be positive")
	}

	bar := output.NewProgressBar(os.Stderr, "Capturing")
	bar.SetTotal(int64(times))

	var results []snapshotWriteResult
	for i := 0; i < times; i++ {
		if i > 0 {
			time.Sleep(interval)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		result, err := captureOne(ctx, client)
		cancel()
		if err != nil {
			fmt.Fprintln(os.Stderr)
			return fmt.Errorf("capture %d/%d: %w", i+1, times, err)
		}

		results = append(results, *result)
		bar.Update(int64(i+1), int64(times))
	}
	bar.Finish()

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON:
		formatter := &output.JSONFormatter{}
		return formatter.Format(os.Stdout, results)
	default:
		for _, r := range results {
			fmt.Printf("%s (%s)\n", r.Path, output.FormatBytes(r.SizeBytes))
		}
		return nil
	}
}

func snapList(c *cli.Context) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Get(ctx, "/snapshots")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result snapshotListResult
	if err := connection.ParseEnvelope(resp, &result); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON:
		formatter := &output.JSONFormatter{}
		return formatter.Format(os.Stdout, result)
	default:
		fmt.Printf("Directory: %s\n", result.Dir)
		if result.Count == 0 {
			fmt.Println("No snapshots.")
			return nil
		}
		table := &output.Table{}
		table.SetHeaders("FILE")
		for _, f := range result.Files {
			table.AddRow(f)
		}
		if err := table.Render(os.Stdout); err != nil {
			return err
		}
		fmt.Printf("\n%d snapshot(s)\n", result.Count)
		return nil
	}
}

func snapAutoStart(c *cli.Context) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	body := map[string]any{}
	if c.IsSet("interval") {
		body["interval_seconds"] = c.Duration("interval").Seconds()
	}
	if c.Bool("gc") {
		body["before_gc"] = true
	}

	resp, err := client.Post(ctx, "/snapshots/auto/start", body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result autoStatusResult
	if err := connection.ParseEnvelope(resp, &result); err != nil {
		return err
	}

	fmt.Printf("Automatic snapshots started (every %.0fs)\n", result.IntervalSeconds)
	return nil
}

func snapAutoStop(c *cli.Context) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Post(ctx, "/snapshots/auto/stop", nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result autoStatusResult
	if err := connection.ParseEnvelope(resp, &result); err != nil {
		return err
	}

	fmt.Printf("Automatic snapshots stopped (%d file(s) captured)\n", result.Count)
	return nil
}

func snapAutoStatus(c *cli.Context) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Get(ctx, "/snapshots/auto")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result autoStatusResult
	if err := connection.ParseEnvelope(resp, &result); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON:
		formatter := &output.JSONFormatter{}
		return formatter.Format(os.Stdout, result)
	default:
		if !result.Running {
			fmt.Println("Automatic snapshots: stopped")
			return nil
		}
		fmt.Printf("Automatic snapshots: running (every %.0fs, %d file(s) so far)\n",
			result.IntervalSeconds, result.Count)
		return nil
	}
}

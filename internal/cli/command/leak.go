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

// LeakCommand returns the leak subcommand group.
func LeakCommand() *cli.Command {
	return &cli.Command{
		Name:  "leak",
		Usage: "Leak engine commands",
		Subcommands: []*cli.Command{
			{
				Name:      "start",
				Usage:     "Start a leak pattern (timer, cache, closure, event, global)",
				ArgsUsage: "<pattern>",
				Action:    leakStart,
			},
			{
				Name:      "stop",
				Usage:     "Stop a leak pattern and release its memory",
				ArgsUsage: "<pattern>",
				Action:    leakStop,
			},
			{
				Name:      "status",
				Usage:     "Show leak engine status (all patterns when omitted)",
				ArgsUsage: "[pattern]",
				Action:    leakStatus,
			},
			{
				Name:   "trigger",
				Usage:  "Notify every leaked event listener",
				Action: leakTrigger,
			},
		},
	}
}

// leakStats mirrors the server's per-engine status payload.
type leakStats struct {
	Pattern     string  `json:"pattern"`
	Count       int     `json:"count"`
	EstimatedMB float64 `json:"estimated_mb"`
	Leaking     bool    `json:"is_leaking"`
}

func requirePattern(c *cli.Context) (string, error) {
	pattern := c.Args().First()
	if pattern == "" {
		return "", fmt.Errorf("pattern argument required (timer, cache, closure, event, global)")
	}
	return pattern, nil
}

func leakStart(c *cli.Context) error {
	pattern, err := requirePattern(c)
	if err != nil {
		return err
	}

	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Post(ctx, "/leaks/"+pattern+"/start", nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Message string    `json:"message"`
		Stats   leakStats `json:"stats"`
	}
	if err := connection.ParseEnvelope(resp, &result); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON:
		formatter := &output.JSONFormatter{}
		return formatter.Format(os.Stdout, result)
	default:
		fmt.Println(result.Message)
		return nil
	}
}

func leakStop(c *cli.Context) error {
	pattern, err := requirePattern(c)
	if err != nil {
		return err
	}

	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Post(ctx, "/leaks/"+pattern+"/stop", nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Message string    `json:"message"`
		Cleared int       `json:"cleared"`
		Stats   leakStats `json:"stats"`
	}
	if err := connection.ParseEnvelope(resp, &result); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON:
		formatter := &output.JSONFormatter{}
		return formatter.Format(os.Stdout, result)
	default:
		fmt.Printf("%s (cleared %d)\n", result.Message, result.Cleared)
		return nil
	}
}

func leakStatus(c *cli.Context) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pattern := c.Args().First()
	flags := ParseGlobalFlags(c)

	if pattern != "" {
		resp, err := client.Get(ctx, "/leaks/"+pattern)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}

		var stats leakStats
		if err := connection.ParseEnvelope(resp, &stats); err != nil {
			return err
		}

		switch output.Format(flags.Output) {
		case output.FormatJSON:
			formatter := &output.JSONFormatter{}
			return formatter.Format(os.Stdout, stats)
		default:
			return renderLeakTable([]leakStats{stats})
		}
	}

	resp, err := client.Get(ctx, "/leaks")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Items []leakStats `json:"items"`
	}
	if err := connection.ParseEnvelope(resp, &result); err != nil {
		return err
	}

	switch output.Format(flags.Output) {
	case output.FormatJSON:
		formatter := &output.JSONFormatter{}
		return formatter.Format(os.Stdout, result.Items)
	default:
		return renderLeakTable(result.Items)
	}
}

func renderLeakTable(items []leakStats) error {
	table := &output.Table{}
	table.SetHeaders("PATTERN", "LEAKING", "COUNT", "ESTIMATED_MB")
	for _, s := range items {
		leaking := "no"
		if s.Leaking {
			leaking = "yes"
		}
		table.AddRow(s.Pattern, leaking,
			fmt.Sprintf("%d", s.Count),
			fmt.Sprintf("%.1f", s.EstimatedMB))
	}
	return table.Render(os.Stdout)
}

func leakTrigger(c *cli.Context) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Post(ctx, "/leaks/event/trigger", nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Message  string `json:"message"`
		Notified int    `json:"listeners_notified"`
	}
	if err := connection.ParseEnvelope(resp, &result); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON:
		formatter := &output.JSONFormatter{}
		return formatter.Format(os.Stdout, result)
	default:
		fmt.Printf("Notified %d listener(s)\n", result.Notified)
		return nil
	}
}

package command

import (
	"bytes"
	"os"
	"testing"

	"github.com/urfave/cli/v2"
)

func TestApp(t *testing.T) {
	app := App()
	if app == nil {
		t.Fatal("App() returned nil")
	}

	if app.Name != "leaklab-cli" {
		t.Errorf("Name = %q, want %q", app.Name, "leaklab-cli")
	}
	if app.Usage == "" {
		t.Error("Usage should not be empty")
	}

	commandNames := make(map[string]bool)
	for _, cmd := range app.Commands {
		commandNames[cmd.Name] = true
	}

	requiredCommands := []string{"snap", "leak", "status"}
	for _, name := range requiredCommands {
		if !commandNames[name] {
			t.Errorf("missing required command: %s", name)
		}
	}
}

func TestApp_GlobalFlags(t *testing.T) {
	app := App()

	flagNames := make(map[string]bool)
	for _, flag := range app.Flags {
		flagNames[flag.Names()[0]] = true
	}

	requiredFlags := []string{"server", "config", "output", "wide", "verbose"}
	for _, name := range requiredFlags {
		if !flagNames[name] {
			t.Errorf("missing required flag: %s", name)
		}
	}
}

func TestParseGlobalFlags(t *testing.T) {
	app := &cli.App{
		Flags: globalFlags(),
		Action: func(c *cli.Context) error {
			flags := ParseGlobalFlags(c)

			if flags.Server != "test-server:8080" {
				t.Errorf("Server = %q, want %q", flags.Server, "test-server:8080")
			}
			if flags.Output != "json" {
				t.Errorf("Output = %q, want %q", flags.Output, "json")
			}
			if !flags.Wide {
				t.Error("Wide should be true")
			}
			if !flags.Verbose {
				t.Error("Verbose should be true")
			}
			return nil
		},
	}

	args := []string{
		"test",
		"--server", "test-server:8080",
		"--output", "json",
		"--wide",
		"--verbose",
	}

	if err := app.Run(args); err != nil {
		t.Fatalf("app.Run failed: %v", err)
	}
}

func TestParseGlobalFlags_Defaults(t *testing.T) {
	app := &cli.App{
		Flags: globalFlags(),
		Action: func(c *cli.Context) error {
			flags := ParseGlobalFlags(c)

			// Unset flags fall back to the CLI config defaults.
			if flags.Server != "http://localhost:3000" {
				t.Errorf("Server default = %q, want %q", flags.Server, "http://localhost:3000")
			}
			if flags.Output != "table" {
				t.Errorf("Output default = %q, want %q", flags.Output, "table")
			}
			if flags.Wide {
				t.Error("Wide default should be false")
			}
			if flags.Verbose {
				t.Error("Verbose default should be false")
			}
			return nil
		},
	}

	if err := app.Run([]string{"test"}); err != nil {
		t.Fatalf("app.Run failed: %v", err)
	}
}

func TestGlobalFlags_EnvVars(t *testing.T) {
	flags := globalFlags()

	envVarFlags := make(map[string][]string)
	for _, flag := range flags {
		if sf, ok := flag.(*cli.StringFlag); ok {
			envVarFlags[sf.Name] = sf.EnvVars
		}
	}

	if len(envVarFlags["server"]) == 0 || envVarFlags["server"][0] != "LEAKLAB_SERVER" {
		t.Error("server flag should have LEAKLAB_SERVER env var")
	}
}

func TestEnsureConnected(t *testing.T) {
	app := &cli.App{
		Flags: globalFlags(),
		Action: func(c *cli.Context) error {
			client, err := EnsureConnected(c)
			if err != nil {
				t.Fatalf("EnsureConnected failed: %v", err)
			}
			if client == nil {
				t.Fatal("client should not be nil")
			}
			if client.BaseURL() != "http://localhost:8080" {
				t.Errorf("BaseURL = %q", client.BaseURL())
			}
			return nil
		},
	}

	args := []string{"test", "--server", "localhost:8080"}
	if err := app.Run(args); err != nil {
		t.Fatalf("app.Run failed: %v", err)
	}
}

func TestPrintError(t *testing.T) {
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	PrintError("test error: %s", "details")

	w.Close()
	os.Stderr = oldStderr

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	if output != "error: test error: details\n" {
		t.Errorf("PrintError output = %q, want %q", output, "error: test error: details\n")
	}
}

func TestSnapCommand(t *testing.T) {
	cmd := SnapCommand()
	if cmd == nil {
		t.Fatal("SnapCommand returned nil")
	}
	if cmd.Name != "snap" {
		t.Errorf("Name = %q, want %q", cmd.Name, "snap")
	}

	subNames := make(map[string]bool)
	for _, sub := range cmd.Subcommands {
		subNames[sub.Name] = true
	}

	requiredSubs := []string{"once", "every", "list", "auto"}
	for _, name := range requiredSubs {
		if !subNames[name] {
			t.Errorf("missing subcommand: %s", name)
		}
	}
}

func TestLeakCommand(t *testing.T) {
	cmd := LeakCommand()
	if cmd == nil {
		t.Fatal("LeakCommand returned nil")
	}
	if cmd.Name != "leak" {
		t.Errorf("Name = %q, want %q", cmd.Name, "leak")
	}

	subNames := make(map[string]bool)
	for _, sub := range cmd.Subcommands {
		subNames[sub.Name] = true
	}

	requiredSubs := []string{"start", "stop", "status", "trigger"}
	for _, name := range requiredSubs {
		if !subNames[name] {
			t.Errorf("missing subcommand: %s", name)
		}
	}
}

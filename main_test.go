package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v3"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}

	expectedVersion := "1.0.0"
	if Version != expectedVersion {
		t.Errorf("Expected version %s, got %s", expectedVersion, Version)
	}

	expectedAppName := "Snake Arcade Game Server"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCommand()

	if cmd.Name != "snake-server" {
		t.Errorf("Expected command name snake-server, got %s", cmd.Name)
	}
	if cmd.Version != Version {
		t.Errorf("Expected version %s, got %s", Version, cmd.Version)
	}
	if cmd.Action == nil {
		t.Error("Root command should default to serving HTTP")
	}

	subcommands := make(map[string]*cli.Command)
	for _, sub := range cmd.Commands {
		subcommands[sub.Name] = sub
	}

	if _, ok := subcommands["serve"]; !ok {
		t.Error("Expected a serve subcommand")
	}

	mcpCmd, ok := subcommands["mcp"]
	if !ok {
		t.Fatal("Expected an mcp subcommand")
	}

	aliases := make(map[string]bool)
	for _, alias := range mcpCmd.Aliases {
		aliases[alias] = true
	}
	if !aliases["stdio-mcp"] || !aliases["mcp-stdio"] {
		t.Errorf("Expected mcp aliases stdio-mcp and mcp-stdio, got %v", mcpCmd.Aliases)
	}
}

func TestFlagDefaults(t *testing.T) {
	cmd := newRootCommand()

	found := make(map[string]bool)
	for _, f := range cmd.Flags {
		switch ff := f.(type) {
		case *cli.IntFlag:
			if ff.Name == "port" {
				found["port"] = true
				if ff.Value <= 0 || ff.Value > 65535 {
					t.Errorf("Invalid default port: %d", ff.Value)
				}
			}
		case *cli.StringFlag:
			switch ff.Name {
			case "host":
				found["host"] = true
				if ff.Value == "" {
					t.Error("Host should have a default value")
				}
			case "config-dir":
				found["config-dir"] = true
				if ff.Value == "" {
					t.Error("Config directory should have a default value")
				}
			case "scores-file":
				found["scores-file"] = true
				if ff.Value == "" {
					t.Error("Scores file should have a default value")
				}
			}
		}
	}

	for _, name := range []string{"port", "host", "config-dir", "scores-file"} {
		if !found[name] {
			t.Errorf("Expected a %s flag on the root command", name)
		}
	}
}

func TestInitializeServices(t *testing.T) {
	configDir := t.TempDir()
	scoresFile := filepath.Join(t.TempDir(), "scores.json")

	svc, err := initializeServices(configDir, scoresFile)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	defer svc.sessions.Shutdown()

	if svc.game == nil {
		t.Fatal("Expected game service to be initialized")
	}
	if svc.hub == nil {
		t.Fatal("Expected websocket hub to be initialized")
	}

	// An empty config directory still works: the config manager falls back
	// to the built-in default rules.
	info, err := svc.game.CreateSession(context.Background(), "")
	if err != nil {
		t.Fatalf("CreateSession through wired services failed: %v", err)
	}
	if info.ID == "" {
		t.Error("Expected a generated session ID")
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	scoresFile := filepath.Join(t.TempDir(), "scores.json")

	_, err := initializeServices("/non/existent/path", scoresFile)
	if err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

// Note: main(), runServe(), and runStdioMCP() start servers and block, so they
// are not covered here. Integration tests that start real servers and hit
// their endpoints would be the place for that.

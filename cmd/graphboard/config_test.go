package main

import (
	"os"
	"path/filepath"
	"testing"
)

// resetFlags restores global flag state after each test.
func resetFlags(t *testing.T) {
	t.Helper()
	orig := struct{ url, key, fmt string }{flagURL, flagKey, flagFmt}
	t.Cleanup(func() {
		flagURL = orig.url
		flagKey = orig.key
		flagFmt = orig.fmt
	})
	flagURL = defaultURL
	flagKey = ""
}

// unsetEnv temporarily unsets an environment variable and restores it on cleanup.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	prev, exists := os.LookupEnv(key)
	os.Unsetenv(key)
	t.Cleanup(func() {
		if exists {
			os.Setenv(key, prev)
		} else {
			os.Unsetenv(key)
		}
	})
}

// writeConfig points HOME at a temp dir and writes content as the CLI
// config file. An empty content leaves the file absent.
func writeConfig(t *testing.T, content string) {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	if content == "" {
		return
	}
	dir := filepath.Join(tmp, ".graphboard")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestResolveConfigEnv(t *testing.T) {
	resetFlags(t)
	t.Setenv("GRAPHBOARD_URL", "http://env-server:9090")
	t.Setenv("GRAPHBOARD_API_KEY", "env-key")
	writeConfig(t, "")

	resolveConfig()

	if flagURL != "http://env-server:9090" {
		t.Errorf("flagURL: got %q", flagURL)
	}
	if flagKey != "env-key" {
		t.Errorf("flagKey: got %q", flagKey)
	}
}

func TestResolveConfigFlagTakesPrecedenceOverEnv(t *testing.T) {
	resetFlags(t)
	t.Setenv("GRAPHBOARD_URL", "http://env-server:9090")
	writeConfig(t, "")

	flagURL = "http://explicit-flag:1234"
	resolveConfig()

	if flagURL != "http://explicit-flag:1234" {
		t.Errorf("explicit flag should win; got %q", flagURL)
	}
}

func TestResolveConfigFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantURL string
		wantKey string
	}{
		{
			name:    "flat",
			content: "url: http://from-file:8080\napi_key: file-key\n",
			wantURL: "http://from-file:8080",
			wantKey: "file-key",
		},
		{
			name: "active profile",
			content: `
active_profile: staging
profiles:
  default:
    url: http://default:3030
    api_key: default-key
  staging:
    url: http://staging:4040
    api_key: staging-key
`,
			wantURL: "http://staging:4040",
			wantKey: "staging-key",
		},
		{
			name: "default profile",
			content: `
profiles:
  default:
    url: http://default-profile:5050
`,
			wantURL: "http://default-profile:5050",
		},
		{
			name:    "invalid yaml ignored",
			content: ":::not-yaml:::",
			wantURL: defaultURL,
		},
		{
			name:    "missing file",
			wantURL: defaultURL,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resetFlags(t)
			unsetEnv(t, "GRAPHBOARD_URL")
			unsetEnv(t, "GRAPHBOARD_API_KEY")
			writeConfig(t, tc.content)

			resolveConfig()

			if flagURL != tc.wantURL {
				t.Errorf("flagURL: got %q, want %q", flagURL, tc.wantURL)
			}
			if flagKey != tc.wantKey {
				t.Errorf("flagKey: got %q, want %q", flagKey, tc.wantKey)
			}
		})
	}
}

func TestResolveConfigEnvNotOverriddenByFile(t *testing.T) {
	resetFlags(t)
	t.Setenv("GRAPHBOARD_API_KEY", "env-wins-key")
	unsetEnv(t, "GRAPHBOARD_URL")
	writeConfig(t, "url: http://file:9000\napi_key: file-key\n")

	resolveConfig()

	if flagKey != "env-wins-key" {
		t.Errorf("flagKey should be env value; got %q", flagKey)
	}
	if flagURL != "http://file:9000" {
		t.Errorf("flagURL should come from file; got %q", flagURL)
	}
}

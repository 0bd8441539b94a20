package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bububa/kichat/internal/config"
)

func TestMissingAPIKey(t *testing.T) {
	t.Setenv("API_KEY", "")
	os.Unsetenv("API_KEY")
	cfgFile := filepath.Join(t.TempDir(), "kichat.yaml")
	if err := os.WriteFile(cfgFile, []byte("log_level: error\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs([]string{"--config", cfgFile})
	err := cmd.Execute()
	if !errors.Is(err, config.ErrMissingAPIKey) {
		t.Fatalf("Expect ErrMissingAPIKey, but got %v", err)
	}
	for _, part := range []string{"Fehler: Kein API_KEY gefunden!", "export API_KEY='Ihr-API-Schlüssel'", "Einstellungen → Konto"} {
		if !strings.Contains(out.String(), part) {
			t.Errorf("Expect %q in output, but got %q", part, out.String())
		}
	}
}

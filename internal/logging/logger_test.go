package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestFromContextDefaultsToNop(t *testing.T) {
	l := FromContext(context.Background())
	if l.GetLevel() != zerolog.Disabled {
		t.Errorf("level = %v, want disabled", l.GetLevel())
	}
}

func TestIntoContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	ctx := IntoContext(context.Background(), NewWriter(&buf, "mathpath", "test", "debug"))
	l := FromContext(ctx)
	l.Info().Str("user_id", "user_abc").Msg("saved")

	out := buf.String()
	for _, want := range []string{"saved", "user_abc", "mathpath"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}

func TestNewWriterLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "mathpath", "test", "warn")
	l.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("info written at warn level: %q", buf.String())
	}

	if got := NewWriter(&buf, "mathpath", "test", "bogus").GetLevel(); got != zerolog.InfoLevel {
		t.Errorf("unknown level = %v, want info", got)
	}
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mathpath.log")
	l, closer, err := NewFile(path, "mathpath", "test", "info")
	if err != nil {
		t.Fatal(err)
	}
	l.Warn().Msg("persisted")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "persisted") {
		t.Errorf("log file = %q", data)
	}
}

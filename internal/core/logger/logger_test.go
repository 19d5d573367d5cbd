package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestFromOptionsWritesRotatedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "radar.log")
	l, cleanup := FromOptions(Options{
		Level: "info",
		JSON:  true,
		App:   "api",
		Rotate: FileRotate{
			Enable:    true,
			Filename:  file,
			MaxSizeMB: 1,
		},
	})
	l.Debug("dropped below level")
	l.Info("scan recorded", zap.String("user_id", "u1"))
	cleanup()

	b, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(b)
	if !strings.Contains(out, `"msg":"scan recorded"`) || !strings.Contains(out, `"app":"api"`) {
		t.Errorf("log file = %s", out)
	}
	if strings.Contains(out, "dropped below level") {
		t.Errorf("debug line should be filtered: %s", out)
	}
}

func TestToWriterTrimsNewline(t *testing.T) {
	var got []string
	l := zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(writerFunc(func(p []byte) { got = append(got, string(p)) })),
		zapcore.DebugLevel,
	))
	w := ToWriter(l, zapcore.WarnLevel)
	if n, err := w.Write([]byte("route conflict\n")); err != nil || n != len("route conflict\n") {
		t.Fatalf("Write = %d, %v", n, err)
	}
	if len(got) != 1 || !strings.Contains(got[0], `"msg":"route conflict"`) || !strings.Contains(got[0], `"level":"warn"`) {
		t.Fatalf("entries = %v", got)
	}
}

type writerFunc func([]byte)

func (f writerFunc) Write(p []byte) (int, error) { f(p); return len(p), nil }

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/smazurov/rtmpencoder/internal/engine"
	"github.com/smazurov/rtmpencoder/internal/engine/enginetest"
)

func run(t *testing.T, eng *enginetest.Engine, args ...string) (string, error) {
	t.Helper()
	cmd := CreateValidateCmd(func() (engine.Engine, error) { return eng, nil })
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateAllPresent(t *testing.T) {
	out, err := run(t, enginetest.New())
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	for _, want := range []string{"[ok]      x264enc", "[ok]      rtmp2sink", "Encoder variants:", "are available"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestValidateMissing(t *testing.T) {
	eng := enginetest.New()
	eng.Remove("vaapih264enc")

	out, err := run(t, eng, "--acceleration", "VAAPI", "--quiet")
	if !errors.Is(err, ErrMissingElements) {
		t.Fatalf("Expected ErrMissingElements, got %v", err)
	}
	if !strings.Contains(out, "[missing] vaapih264enc") {
		t.Errorf("Expected missing encoder in output:\n%s", out)
	}
	if strings.Contains(out, "[ok]") {
		t.Errorf("Quiet mode should only list missing elements:\n%s", out)
	}
}

func TestValidateSoftwareIgnoresHardware(t *testing.T) {
	eng := enginetest.New()
	eng.Remove("vaapih264enc", "v4l2h264enc")

	out, err := run(t, eng)
	if err != nil {
		t.Fatalf("Software validation should not need hardware encoders: %v", err)
	}
	if !strings.Contains(out, "[missing] vaapi") || !strings.Contains(out, "[missing] v4l2") {
		t.Errorf("Expected unavailable variants to be listed:\n%s", out)
	}
	if !strings.Contains(out, "[ok]      software") {
		t.Errorf("Expected software variant to be available:\n%s", out)
	}
}

func TestValidateUnknownAcceleration(t *testing.T) {
	called := false
	cmd := CreateValidateCmd(func() (engine.Engine, error) {
		called = true
		return enginetest.New(), nil
	})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-a", "NVENC"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("Expected error for unknown acceleration")
	}
	if called {
		t.Error("Engine should not be opened for invalid flags")
	}
}

package pipeline

import (
	"slices"
	"testing"

	"github.com/smazurov/rtmpencoder/internal/encoders"
	"github.com/smazurov/rtmpencoder/internal/engine/enginetest"
)

func TestRequiredElementsMatchBuild(t *testing.T) {
	for _, v := range encoders.Variants {
		t.Run(string(v), func(t *testing.T) {
			eng := enginetest.New()
			cfg := testConfig()
			cfg.Video.Variant = v
			c := NewController(eng, cfg, WithLogger(discardLogger()))
			if err := c.Build(); err != nil {
				t.Fatalf("Build failed: %v", err)
			}

			built := make(map[string]bool)
			for _, n := range eng.Graphs[0].Nodes() {
				built[n.Kind()] = true
			}

			required, err := RequiredElements(v)
			if err != nil {
				t.Fatalf("RequiredElements failed: %v", err)
			}
			if len(required) != len(built) {
				t.Errorf("Expected %d distinct kinds, built %d", len(required), len(built))
			}
			for _, kind := range required {
				if !built[kind] {
					t.Errorf("%s listed as required but not built", kind)
				}
			}
		})
	}
}

func TestMissingElements(t *testing.T) {
	eng := enginetest.New()
	eng.Remove("vaapih264enc", "fdkaacenc")

	missing, err := MissingElements(eng, encoders.VAAPI)
	if err != nil {
		t.Fatalf("MissingElements failed: %v", err)
	}
	slices.Sort(missing)
	if !slices.Equal(missing, []string{"fdkaacenc", "vaapih264enc"}) {
		t.Errorf("Unexpected missing elements %v", missing)
	}

	missing, _ = MissingElements(eng, encoders.Software)
	if !slices.Equal(missing, []string{"fdkaacenc"}) {
		t.Errorf("Unexpected missing elements for software %v", missing)
	}
}

func TestRequiredElementsUnknownVariant(t *testing.T) {
	if _, err := RequiredElements(encoders.Variant("nvenc")); err == nil {
		t.Error("Expected error for unknown variant")
	}
}

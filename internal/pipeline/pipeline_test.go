package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image/gif"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/wethinkt/go-demoreel/internal/encode"
	"github.com/wethinkt/go-demoreel/internal/render"
	"github.com/wethinkt/go-demoreel/internal/scenario"
	"github.com/wethinkt/go-demoreel/internal/theme"
	"github.com/wethinkt/go-demoreel/internal/timeline"
)

// smallScenario is a fast variant: a tiny canvas and short holds.
func smallScenario(t *testing.T, name string) scenario.Scenario {
	t.Helper()
	sc, err := scenario.Parse([]byte(`
name = "` + name + `"

[output]
animation = "` + name + `.gif"
still = "` + name + `_final.png"
fps = 10
width_in = 2.8
height_in = 1.4
dpi = 50.0
still_dpi = 60.0

[chat]
prompt = "Value Apple"
responses = ["Looking it up", "Adding data"]

[timing]
input_stride = 4
response_stride = 6
formula_stride = 10
input_pause = 2
message_sent = 2
response_hold = 2
assumption_pause = 1
assumptions_hold = 2
projections_hold = 2
formula_values_hold = 2
formula_read_hold = 2
formula_collapse_hold = 2
final_hold = 3
`))
	if err != nil {
		t.Fatal(err)
	}
	return sc
}

func testOptions(t *testing.T) Options {
	return Options{
		OutDir: filepath.Join(t.TempDir(), "out"),
		Theme:  theme.DefaultTheme(),
		Labels: render.DefaultLabels(),
	}
}

func TestRenderWritesArtifacts(t *testing.T) {
	sc := smallScenario(t, "small")
	opts := testOptions(t)
	var calls []int
	opts.Progress = func(done, total int) { calls = append(calls, done) }

	res, err := Render(context.Background(), sc, opts)
	if err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(opts.OutDir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if want := []string{"small.gif", "small_final.png"}; !slices.Equal(names, want) {
		t.Fatalf("output dir holds %v, want %v", names, want)
	}

	frames := timeline.Build(sc)
	if res.Frames != len(frames) {
		t.Errorf("Frames = %d, want %d", res.Frames, len(frames))
	}
	if res.Reused == 0 {
		t.Error("hold frames should reuse the previous image")
	}
	if len(calls) != len(frames) || calls[len(calls)-1] != len(frames) {
		t.Errorf("progress called %d times, want %d", len(calls), len(frames))
	}

	f, err := os.Open(res.AnimationPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != len(frames) {
		t.Errorf("gif has %d frames, want %d", len(anim.Image), len(frames))
	}
	if anim.LoopCount != 0 || anim.Delay[0] != encode.Delay(sc.Output.FPS) {
		t.Errorf("loop = %d, delay = %d", anim.LoopCount, anim.Delay[0])
	}
	if b := anim.Image[0].Bounds(); b.Dx() != 140 || b.Dy() != 70 {
		t.Errorf("gif frame size = %v, want 140x70", b)
	}
	if st, err := os.Stat(res.AnimationPath); err != nil || st.Size() != int64(res.AnimationBytes) {
		t.Errorf("AnimationBytes = %d, file %v", res.AnimationBytes, err)
	}
}

func TestStillMatchesLastFrame(t *testing.T) {
	sc := smallScenario(t, "still")
	opts := testOptions(t)
	res, err := Render(context.Background(), sc, opts)
	if err != nil {
		t.Fatal(err)
	}
	written, err := os.ReadFile(res.StillPath)
	if err != nil {
		t.Fatal(err)
	}

	env, err := render.NewEnv(sc, opts.Theme, opts.Labels)
	if err != nil {
		t.Fatal(err)
	}
	fresh, err := Still(env, timeline.Build(sc))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(written, fresh) {
		t.Error("written still differs from a fresh render of the last frame")
	}
	if res.StillBytes != len(written) {
		t.Errorf("StillBytes = %d, want %d", res.StillBytes, len(written))
	}
}

func TestRenderFrameSize(t *testing.T) {
	sc := smallScenario(t, "size")
	env, err := render.NewEnv(sc, theme.DefaultTheme(), render.DefaultLabels())
	if err != nil {
		t.Fatal(err)
	}
	img, err := RenderFrame(env, timeline.Build(sc)[0], 100)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 280 || b.Dy() != 140 {
		t.Errorf("bounds = %v, want 280x140", b)
	}
}

func TestStillEmptyTimeline(t *testing.T) {
	sc := smallScenario(t, "empty")
	env, err := render.NewEnv(sc, theme.DefaultTheme(), render.DefaultLabels())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Still(env, nil); !errors.Is(err, render.ErrFrameIndex) {
		t.Errorf("Still(nil) error = %v, want ErrFrameIndex", err)
	}
}

func TestRenderCancelled(t *testing.T) {
	sc := smallScenario(t, "cancelled")
	opts := testOptions(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Render(ctx, sc, opts); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(filepath.Join(opts.OutDir, sc.Output.Animation)); !errors.Is(err, os.ErrNotExist) {
		t.Error("cancelled render must not write the animation")
	}
}

func TestRenderMissingIcon(t *testing.T) {
	sc := smallScenario(t, "icon")
	sc.Chat.AttachmentIcon = filepath.Join(t.TempDir(), "missing.png")
	if _, err := Render(context.Background(), sc, testOptions(t)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}

func TestRenderAll(t *testing.T) {
	scs := []scenario.Scenario{smallScenario(t, "one"), smallScenario(t, "two")}
	opts := testOptions(t)

	results, err := RenderAll(context.Background(), scs, opts, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].Scenario != "one" || results[1].Scenario != "two" {
		t.Fatalf("results = %+v", results)
	}
	for _, r := range results {
		if _, err := os.Stat(r.AnimationPath); err != nil {
			t.Error(err)
		}
		if _, err := os.Stat(r.StillPath); err != nil {
			t.Error(err)
		}
	}
}

func TestRenderAllFailure(t *testing.T) {
	bad := smallScenario(t, "bad")
	bad.Chat.AttachmentIcon = filepath.Join(t.TempDir(), "missing.png")
	scs := []scenario.Scenario{smallScenario(t, "good"), bad}

	if _, err := RenderAll(context.Background(), scs, testOptions(t), 0); err == nil {
		t.Error("expected the failing scenario to fail the batch")
	}
}

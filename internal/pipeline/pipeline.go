// Package pipeline drives a scenario from timeline to written artifacts.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/wethinkt/go-demoreel/internal/applog"
	"github.com/wethinkt/go-demoreel/internal/encode"
	"github.com/wethinkt/go-demoreel/internal/metrics"
	"github.com/wethinkt/go-demoreel/internal/render"
	"github.com/wethinkt/go-demoreel/internal/scenario"
	"github.com/wethinkt/go-demoreel/internal/theme"
	"github.com/wethinkt/go-demoreel/internal/timeline"
)

// Options control where and how a scenario is rendered.
type Options struct {
	OutDir string
	Theme  theme.Theme
	Labels render.Labels

	// Progress, if set, is called after every frame with the number of
	// frames done and the total. Calls come from the rendering goroutine.
	Progress func(done, total int)
}

// Result describes the artifacts written for one scenario.
type Result struct {
	Scenario       string        `json:"scenario"`
	Frames         int           `json:"frames"`
	Reused         int           `json:"reused"`
	AnimationPath  string        `json:"animation_path"`
	AnimationBytes int           `json:"animation_bytes"`
	StillPath      string        `json:"still_path"`
	StillBytes     int           `json:"still_bytes"`
	Elapsed        time.Duration `json:"elapsed"`
}

// Render builds the timeline of sc, encodes every frame into one looping
// GIF and writes a PNG still of the last frame. Frames are drawn in order
// on a single canvas. Both files are replaced atomically.
func Render(ctx context.Context, sc scenario.Scenario, opts Options) (Result, error) {
	start := time.Now()
	done := applog.Log.Timed("pipeline.render", "scenario", sc.Name)
	defer done()

	env, err := render.NewEnv(sc, opts.Theme, opts.Labels)
	if err != nil {
		return Result{}, err
	}
	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return Result{}, fmt.Errorf("create output dir: %w", err)
	}

	frames := timeline.Build(sc)
	res := Result{
		Scenario:      sc.Name,
		Frames:        len(frames),
		AnimationPath: filepath.Join(opts.OutDir, sc.Output.Animation),
		StillPath:     filepath.Join(opts.OutDir, sc.Output.Still),
	}

	anim, reused, err := Animation(ctx, env, frames, opts.Progress)
	if err != nil {
		return Result{}, err
	}
	if err := atomic.WriteFile(res.AnimationPath, bytes.NewReader(anim)); err != nil {
		return Result{}, fmt.Errorf("write animation: %w", err)
	}
	res.Reused = reused
	res.AnimationBytes = len(anim)
	metrics.OutputBytes.WithLabelValues(sc.Name, "animation").Set(float64(len(anim)))

	still, err := Still(env, frames)
	if err != nil {
		return Result{}, err
	}
	if err := atomic.WriteFile(res.StillPath, bytes.NewReader(still)); err != nil {
		return Result{}, fmt.Errorf("write still: %w", err)
	}
	res.StillBytes = len(still)
	metrics.OutputBytes.WithLabelValues(sc.Name, "still").Set(float64(len(still)))

	res.Elapsed = time.Since(start)
	applog.Log.Info("rendered scenario",
		"scenario", sc.Name,
		"frames", res.Frames,
		"reused", res.Reused,
		"animation", res.AnimationPath,
		"still", res.StillPath)
	return res, nil
}

// Animation encodes frames as a looping GIF at the scenario's frame rate
// and DPI. A frame equal to its predecessor reuses the previous image; the
// number of such frames is returned with the data.
func Animation(ctx context.Context, env *render.Env, frames []timeline.Frame, progress func(done, total int)) ([]byte, int, error) {
	sc := env.Scenario
	c, err := render.NewCanvas(sc.Output.WidthIn, sc.Output.HeightIn, sc.Output.DPI)
	if err != nil {
		return nil, 0, err
	}
	defer c.Close()

	var (
		buf    bytes.Buffer
		reused int
	)
	gw := encode.NewGIF(&buf, sc.Output.FPS)
	for i, f := range frames {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		if i > 0 && f.Equal(frames[i-1]) {
			gw.Repeat()
			reused++
			metrics.FramesReused.WithLabelValues(sc.Name).Inc()
		} else {
			t0 := time.Now()
			if err := render.Draw(c, f, env); err != nil {
				return nil, 0, fmt.Errorf("frame %d: %w", i, err)
			}
			gw.Add(c.Image())
			metrics.FrameSeconds.Observe(time.Since(t0).Seconds())
		}
		metrics.FramesRendered.WithLabelValues(sc.Name).Inc()
		if progress != nil {
			progress(i+1, len(frames))
		}
	}
	if err := gw.Close(); err != nil {
		return nil, 0, fmt.Errorf("encode animation: %w", err)
	}
	return buf.Bytes(), reused, nil
}

// RenderFrame draws one frame on a fresh canvas of the scenario's size at dpi.
func RenderFrame(env *render.Env, f timeline.Frame, dpi float64) (*image.RGBA, error) {
	sc := env.Scenario
	c, err := render.NewCanvas(sc.Output.WidthIn, sc.Output.HeightIn, dpi)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	if err := render.Draw(c, f, env); err != nil {
		return nil, err
	}
	return c.Image(), nil
}

// Still returns the PNG of the last frame at the scenario's still DPI.
func Still(env *render.Env, frames []timeline.Frame) ([]byte, error) {
	last, err := render.FrameAt(frames, -1)
	if err != nil {
		return nil, err
	}
	img, err := RenderFrame(env, last, env.Scenario.Output.StillDPI)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := encode.WritePNG(&buf, img); err != nil {
		return nil, fmt.Errorf("encode still: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderAll renders independent scenarios concurrently, at most limit at a
// time (0 means no limit). Each scenario stays sequential. The first
// failure cancels the others. Results keep the order of scs.
func RenderAll(ctx context.Context, scs []scenario.Scenario, opts Options, limit int) ([]Result, error) {
	results := make([]Result, len(scs))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, sc := range scs {
		g.Go(func() error {
			o := opts
			o.Progress = nil
			res, err := Render(ctx, sc, o)
			if err != nil {
				return fmt.Errorf("%s: %w", sc.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

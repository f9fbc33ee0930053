// Command xrdemo renders a few frames of a generated scene headlessly and
// prints what each stage recorded.
package main

import (
	"context"
	"embed"
	"flag"
	"io/fs"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/xrender"
	"github.com/gogpu/xrender/audio"
	"github.com/gogpu/xrender/audio/beepdev"
	"github.com/gogpu/xrender/config"
	"github.com/gogpu/xrender/graphics"
	"github.com/gogpu/xrender/render"
	"github.com/gogpu/xrender/render/mesh"
	"github.com/gogpu/xrender/render/sprite"
)

//go:embed pipeline.toml
var defaultPipeline []byte

//go:embed effects/*.wgsl
var builtinEffects embed.FS

const sampleRate = 8000

func main() {
	var (
		configPath = flag.String("config", "", "pipeline file (.toml or .yaml); built-in pipeline if empty")
		frames     = flag.Int("frames", 3, "frames to render")
		meshes     = flag.Int("meshes", 200, "mesh objects in the scene")
		sprites    = flag.Int("sprites", 50, "sprite objects in the scene")
		workers    = flag.Int("workers", 0, "parallel draw workers (0 keeps the pipeline setting)")
		withAudio  = flag.Bool("audio", false, "play a tone on an offline audio device")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		xrender.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	p, err := loadPipeline(*configPath)
	if err != nil {
		log.Fatalf("Failed to load pipeline: %v", err)
	}
	if *workers != 0 {
		p.Parallel = config.Parallel{Workers: *workers, MinRange: 16}
	}

	var opts []config.BuildOption
	if *configPath == "" {
		effects, _ := fs.Sub(builtinEffects, "effects")
		opts = append(opts, config.WithEffectFS(effects))
	}

	ctx := context.Background()
	sys, _, err := config.Build(ctx, p, graphics.NewNullDevice(), opts...)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}
	defer sys.Close()

	view := sys.AddView(render.NewRenderView("main"))
	if err := populate(sys, *meshes, *sprites); err != nil {
		log.Fatalf("Failed to populate scene: %v", err)
	}

	var (
		engine *audio.Engine
		sound  *audio.Instance
	)
	if *withAudio {
		engine, sound, err = startAudio()
		if err != nil {
			log.Printf("Audio disabled: %v", err)
		} else {
			defer engine.Dispose()
		}
	}

	out := graphics.NewCommandList()
	samples := make([][2]float64, sampleRate/60)
	for frame := range *frames {
		start := time.Now()
		sys.Prepare()
		out.Reset()
		if err := sys.Draw(view, out); err != nil {
			log.Fatalf("Frame %d: %v", frame, err)
		}
		report(sys, view, out, time.Since(start))

		if sound != nil {
			engine.Device().(*beepdev.Device).Stream(samples)
			engine.Update()
			log.Printf("  audio: %v", sound.PlayState())
		}
	}
}

func loadPipeline(path string) (*config.Pipeline, error) {
	if path == "" {
		return config.Decode(defaultPipeline, config.FormatTOML)
	}
	return config.Load(path)
}

// populate adds a grid of meshes, every fifth transparent, and a row of
// sprites to sys.
func populate(sys *render.RenderSystem, meshes, sprites int) error {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := range meshes {
		t := &mesh.Transform{World: graphics.Translation(float32(i%20), float32(i/20), rng.Float32()*50)}
		m := mesh.NewMeshObject("mesh", t)
		m.Transparent = i%5 == 0
		m.Selected = i%7 == 0
		if m.Transparent {
			m.Color = gputypes.Color{R: 0.2, G: 0.6, B: 1, A: 0.5}
		}
		if err := sys.AddObject(m); err != nil {
			return err
		}
	}

	tex := graphics.NewTexture("atlas", 256, 256, gputypes.TextureFormatRGBA8Unorm)
	for i := range sprites {
		t := &mesh.Transform{World: graphics.Translation(float32(i), -2, 5)}
		obj := sprite.NewSpriteObject(t, sprite.NewSpriteFromTexture(tex))
		if err := sys.AddObject(obj); err != nil {
			return err
		}
	}
	return nil
}

func startAudio() (*audio.Engine, *audio.Instance, error) {
	engine, err := audio.NewEngine(&beepdev.Backend{Offline: true}, audio.WithSampleRate(sampleRate))
	if err != nil {
		return nil, nil, err
	}
	if err := engine.Start(); err != nil {
		return nil, nil, err
	}
	clip, err := beepdev.Tone(sampleRate, 440, 30*time.Millisecond, 0.5)
	if err != nil {
		engine.Dispose()
		return nil, nil, err
	}
	s, err := engine.NewSound("tone", clip)
	if err != nil {
		engine.Dispose()
		return nil, nil, err
	}
	inst, err := s.NewInstance()
	if err != nil {
		engine.Dispose()
		return nil, nil, err
	}
	inst.Play()
	return engine, inst, nil
}

func report(sys *render.RenderSystem, view *render.RenderView, out *graphics.CommandList, took time.Duration) {
	st := sys.Stats()
	log.Printf("frame %d: %d nodes, %d commands, %d skipped, %v", st.Frame, st.Nodes, out.Len(), st.SkippedDrawUnits, took)
	for _, vs := range view.Stages() {
		log.Printf("  %-16s %5d nodes (%s)", vs.Stage.Name, len(vs.SortedNodes), vs.Stage.SortMode)
	}
}

// Package coge is the runtime core of a 2D game engine: an engine with a
// fixed-rate main loop, scenes of z-ordered sprites, tile maps with path and
// range finding, scene transitions, and a configuration-driven resource
// factory. Rendering, audio, input, networking and persistence sit behind
// small service interfaces with [Ebitengine], [beep] and SQLite back-ends,
// plus headless fakes for tests and CI.
//
// # Quick start
//
// Build an engine from back-ends, initialize it from a configuration file
// and run it:
//
//	cfg, err := coge.LoadConfig("game.ini")
//	if err != nil {
//		log.Fatal(err)
//	}
//	video := coge.NewEbitenVideo("My Game", 640, 480, false)
//	e, err := coge.NewEngine(coge.Options{
//		Video:  video,
//		Input:  coge.NewEbitenInput(),
//		Driver: &coge.EbitenDriver{Video: video},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer e.Close()
//	if err := e.Initialize(cfg); err != nil {
//		log.Fatal(err)
//	}
//	if err := e.Run(); err != nil {
//		log.Fatal(err)
//	}
//
// Only one engine may be live at a time; [NewEngine] returns
// [ErrEngineExists] until the previous one is closed.
//
// # Scenes and sprites
//
// A [Scene] owns sprites ordered by z. Each frame the active scene
// dispatches input, updates its sprites, scrolls its view, draws the sprites
// that intersect the view and presents the result. Sprites become active or
// inactive at the next settlement pass, so handlers may freely change the
// sets they are iterating.
//
//	box := e.NewSprite("box")
//	box.Width, box.Height = 40, 40
//	box.Color = coge.Color{R: 0.3, G: 0.7, B: 1, A: 1}
//	scene.AddSprite(box, 100, 50, 0)
//
// # Events and scripts
//
// Sprites, scenes and the engine deliver [Event] values to a [Script] and to
// handlers registered with On. A sprite's own Script overrides its
// CommonScript for the kinds it handles. Scripts may also drive a [Plot], a
// resumable sequence of steps.
//
// # Configuration
//
// [LoadConfig] reads INI or YAML. Sections named kind.name describe
// resources that the Load methods build on first use: image, sound, font,
// path, map, data, anima, sprite and scene. Loaded resources are shared
// through reference-counted [Shared] handles.
//
// [Ebitengine]: https://ebitengine.org
// [beep]: https://github.com/gopxl/beep
package coge

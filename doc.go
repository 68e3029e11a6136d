// Package hologram renders a still image as a field of animated particles
// for [Ebitengine].
//
// Particles stream in from just outside the viewport, ease into the shape of
// the source image, then idle with layered wave motion while an optional
// pointer pushes them around. Once they have settled the image itself fades
// in beneath them and, when enabled, particles continuously melt off the
// image's edges.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	scene := hologram.NewScene(hologram.DefaultConfig())
//	scene.Load(ctx, hologram.FileSource("portrait.png"))
//	hologram.Run(scene, hologram.RunConfig{
//		Title: "Hologram", Width: 1280, Height: 720,
//	})
//
// For full control, implement [ebiten.Game] yourself and call
// [Scene.Update], [Scene.Draw] and [Scene.Layout] directly.
//
// # Components
//
// The scene is assembled from parts that can be used on their own:
//
//   - [ComputePlacement] lays an image out inside a container.
//   - [Sampler] turns the placed image into a sparse set of colored points.
//   - [Field] owns the materialization particles seeded from those points.
//   - [EdgeEmitter] sheds melting particles from the image edges.
//   - [Surface] paints both populations with trails and blurred glow.
//   - [Clock] drives deferred timers from the frame loop.
//   - [ExtractDominantColor] reports the image's dominant color once per load.
//
// [TextField] and [PhaseCycler] reuse the same machinery for text and for
// looping pixel-art frames.
//
// # Determinism
//
// Every random choice draws from an explicit *rand.Rand (see [NewRand]) and
// no component reads the wall clock, so a fixed seed and a fixed sequence of
// Step durations reproduce a run exactly.
//
// # ECS integration
//
// Lifecycle events can be forwarded to a [Donburi] world via the adapter in
// hologram/ecs; see [Scene.SetEventSink].
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package hologram

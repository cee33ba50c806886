// Package tessera is a tile-map rendering and simulation core for 2D games.
//
// A [WorldMap] is loaded from a JSON definition and a single spritesheet
// through an [AssetLoader]. A [Camera] moves over it with one of four motion
// models, the [Renderer] draws the tiles inside the camera's [Camera.Area]
// onto a [Viewport], and [Actor] values move around the map and collide with
// its walls and with each other. A [Stage] ties all of these together and is
// what a game loop drives.
//
// # Quick start
//
// The simplest way to get a window is [Run]:
//
//	loader := tessera.EbitenLoader{AssetLoader: tessera.DirLoader{FS: os.DirFS("assets")}}
//	world, err := tessera.Load(ctx, loader, "arena")
//	if err != nil {
//		log.Fatal(err)
//	}
//	vp := tessera.NewEbitenViewport(800, 600)
//	stage := tessera.NewStage(world, vp, tessera.DefaultCameraConfig())
//	stage.Camera().CenterOnMap()
//	tessera.Run(stage, tessera.RunConfig{Title: "Arena", Width: 800, Height: 600})
//
// For full control, call [Stage.Update] and [Stage.Draw] from your own
// ebiten.Game, or drive the stage from any loop with a different [Viewport]
// such as [TerminalViewport].
//
// # Readiness
//
// Maps and actors load asynchronously. Until a value is ready it is inert:
// a [WorldMap] answers every query with zero values, the renderer draws
// nothing, and an [Actor] neither collides nor hits. Readiness is a one-shot
// signal exposed as Done/Wait/IsReady; a failed load is terminal and reported
// as a [*LoadError]. Missing or invalid numeric fields in a map definition
// are not fatal: they fall back to defaults and are reported as
// [ConfigError] warnings.
//
// # Coordinates
//
// World space is in pixels with the origin at the map's top-left corner and
// Y growing downward. Tile coordinates are (column, row). The camera position
// is the world point at the center of the viewport.
//
// # Camera motion
//
//   - [MotionLinear] moves toward the target at a constant speed.
//   - [MotionSmooth] closes a fixed fraction of the remaining distance.
//   - [MotionInstant] jumps to the target.
//   - [MotionCurved] follows a cubic Bézier from the start to the target.
//
// Zoom changes keep the world point under the viewport center fixed, and the
// camera never shows anything outside the map unless the map is smaller than
// the view, in which case it is centered.
//
// # Logging and configuration
//
// The package logs through a logrus logger, see [Logger] and [SetLogger].
// [LoadConfig] reads settings from a file, TESSERA_* environment variables
// and command-line flags.
package tessera

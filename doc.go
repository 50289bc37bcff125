// Package tableau composes scenes from a background image and a set of
// overlay images, and saves them as portable zip archives.
//
// Items are positioned in viewport-percentage units (vw and vh) and anchored
// to one of the four viewport corners, so a scene lays out the same at any
// window size. Each item can be moved, resized or rotated by choosing a mode
// from its context menu and moving the pointer.
//
// # Quick start
//
// A [Composer] needs a [Surface] to render onto. The stage sub-package
// provides an Ebitengine surface; [MemorySurface] records what would be
// shown and is enough for tools and tests:
//
//	surface := tableau.NewMemorySurface(1280, 720)
//	c, err := tableau.New(tableau.Options{Surface: surface})
//	if err != nil {
//		log.Fatal(err)
//	}
//	c.SetSceneName("Harbour At Dusk")
//	c.AddItemFiles(ctx, []string{"boat.png", "gull.png"})
//	c.Wait(ctx)
//	c.ExportFile(ctx, "out")
//
// In a window, stage.Run drives the composer from an Ebitengine game loop:
//
//	st := stage.New(1280, 720)
//	c, _ := tableau.New(tableau.Options{Surface: st, Alerter: st})
//	stage.Run(c, st, stage.RunConfig{Title: "tableau"})
//
// Otherwise call [Composer.Update] and [Composer.ProcessInput] once per
// frame from the game loop. File reads and archive work run in the background and are
// applied by Update in the order they were started.
//
// # Scene model
//
// A [Scene] changes only through [Scene.Apply]. Every change is a
// [Message] value such as [ItemAdded], [ItemTransformed] or
// [BackgroundChanged], and subscribers receive each applied message. The
// Composer projects them onto live [Item] values and the surface.
//
// # Archives
//
// [Export] writes the background image, a JSON manifest named after the
// scene, and one entry per item image. [Import] reverses it; a missing item
// image skips that item with a [Warning] instead of failing the import.
//
// # Scripted input
//
// [Composer.InjectClick], [Composer.InjectRightClick] and
// [Composer.InjectMove] queue synthetic pointer events; [LoadTestScript]
// reads a JSON script of such steps, including screenshots.
package tableau

/*
Package editor owns a document and every component editing it: the scene
graph, the object registry, the selection tracker, the serializer, the
history and the tools.

All commands are serialized. Work a component defers to the next loop
turn, such as fitting a new canvas or recomputing layers after an add, is
flushed before the command returns, so callers always observe a settled
editor.

# Usage

	ed := editor.New(editor.Options{
		Viewport: types.Size{Width: 1240, Height: 840},
		Settings: config.DefaultSettings(),
		Images:   imaging.NewLoader(fetcher, log),
		Logger:   log,
	})
	defer ed.Close()

	ed.NewFile(800, 600)
	_ = ed.OpenPanel("filter")
	_ = ed.WithTools(func(t *editor.Tools) error { return t.Filter.Toggle("sepia") })
	_ = ed.Apply(ctx)
	_ = ed.Undo(ctx)
*/
package editor

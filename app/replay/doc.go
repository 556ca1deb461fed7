// Package replay wires the session, course and playback packages into a
// single run over one chapter.
//
// A run restores the persisted session or logs in, counts the chapter pages,
// then for each page fetches the card arguments and replays every playable
// attachment. The session is persisted after a fresh login and again when the
// run ends, cancellation included.
//
//	var cfg replay.Config
//	config.MustLoad(&cfg)
//
//	app, err := replay.NewApp(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer app.Close()
//
//	summary, err := app.Run(ctx)
//
// The session backend is picked by SESSION_STORE: file (default), redis or s3.
package replay

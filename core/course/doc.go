// Package course implements the read and write calls made against a chapter:
// resolving the arguments embedded in knowledge card pages, counting pages,
// fetching media status and submitting signed playback logs.
//
//	c := course.NewClient(sess.Client(), course.WithConfig(cfg), course.WithLogger(log))
//
//	pages, err := c.CountPages(ctx, chapterID, clazzID, courseID)
//	args, err := c.FetchArgs(ctx, chapterID, clazzID, courseID, 0)
//	st, err := c.PlayStatus(ctx, args.Attachments[0].ObjectID)
//
// FetchArgs and PlayStatus are idempotent GETs and are retried with bounded
// exponential backoff on transport failures and 5xx/429 responses.
// CountPages and SubmitLog are sent once.
package course

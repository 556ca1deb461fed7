// Package enc computes the "enc" signature the platform requires on playback
// log submissions.
//
// The signature is the MD5 of the bracketed, ordered concatenation
//
//	[clazzId][userId][jobId][objectId][playingTimeMs][secret][durationMs][clipTime]
//
// rendered as lowercase hex. Build is pure: the same Params always give the
// same token, and every submission must compute its own.
package enc

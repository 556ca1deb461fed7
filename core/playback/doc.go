// Package playback marks chapter attachments as watched by replaying the
// telemetry the web player would send.
//
// For every playable attachment the Simulator performs four sequential calls:
//
//	status fetch → log(playingTime=0, isdrag=0) → status fetch → log(playingTime=duration, isdrag=4)
//
// A random delay from the configured range separates every two consecutive
// calls, including calls belonging to different attachments and pages.
// Attachments whose module is in the ignore set, work attachments and
// attachments without a media object are skipped.
//
// Every step is reported to registered observers as an Event; the server's
// isPassed verdict is reported and never acted upon.
package playback

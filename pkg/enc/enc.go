package enc

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"
)

// DefaultSecret is the pre-shared salt the platform mixes into playback signatures.
const DefaultSecret = "d_yHJ!$pdA~5"

// Params holds the fields a playback signature covers.
// Times are in seconds; they are converted to milliseconds inside the digest.
type Params struct {
	ClazzID     string
	UserID      string
	JobID       string // empty when the attachment has no job
	ObjectID    string
	PlayingTime int64
	Duration    int64
	StartTime   string // empty means 0
	EndTime     string // empty means Duration
	Secret      string // empty means DefaultSecret
}

// ClipTime formats the played range as "start_end".
// An empty start becomes "0" and an empty end becomes the full duration.
func ClipTime(duration int64, start, end string) string {
	if start == "" {
		start = "0"
	}
	if end == "" {
		end = strconv.FormatInt(duration, 10)
	}
	return start + "_" + end
}

// Build returns the lowercase hex MD5 "enc" token for p.
func Build(p Params) string {
	sum := md5.Sum([]byte(Input(p)))
	return hex.EncodeToString(sum[:])
}

// Input returns the exact string that Build hashes.
func Input(p Params) string {
	secret := p.Secret
	if secret == "" {
		secret = DefaultSecret
	}

	fields := [...]string{
		p.ClazzID,
		p.UserID,
		p.JobID,
		p.ObjectID,
		strconv.FormatInt(p.PlayingTime*1000, 10),
		secret,
		strconv.FormatInt(p.Duration*1000, 10),
		ClipTime(p.Duration, p.StartTime, p.EndTime),
	}

	var b strings.Builder
	for _, f := range fields {
		b.WriteByte('[')
		b.WriteString(f)
		b.WriteByte(']')
	}
	return b.String()
}

package course

// Attachment types and modules with special handling.
const (
	TypeWork    = "workid"
	TypeVideo   = "video"
	ModuleImage = "insertimage"
)

// Attachment is one playable (or skippable) unit on a chapter page.
type Attachment struct {
	Type      string
	JobID     string // empty when the page reports no job
	ObjectID  string
	Module    string
	OtherInfo string
	Name      string
}

// DType is the media type reported with playback logs.
func (a Attachment) DType() string {
	if a.Type == TypeVideo {
		return "Video"
	}
	return "Audio"
}

// Args are the arguments embedded in one chapter page.
type Args struct {
	UserID      string
	CPI         string
	Attachments []Attachment
}

// PlayStatus describes a media object right before a submission.
type PlayStatus struct {
	Duration int64
	DToken   string
	Filename string
	IsPassed bool
	Status   string
}

// LogParams are the inputs of one playback submission.
type LogParams struct {
	ClazzID     string
	UserID      string
	CPI         string
	DToken      string
	JobID       string
	ObjectID    string
	OtherInfo   string
	DType       string
	PlayingTime int64
	Duration    int64
	StartTime   string
	EndTime     string
	IsDrag      int
}

// LogResult is the server's answer to a playback submission.
type LogResult struct {
	IsPassed   bool
	StatusCode int
	Body       string
}

// Playback drag flags.
const (
	DragNone     = 0
	DragComplete = 4
)

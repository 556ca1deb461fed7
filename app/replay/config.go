package replay

import (
	"fmt"

	"github.com/dmitrymomot/chaoxing/core/course"
	"github.com/dmitrymomot/chaoxing/core/playback"
	"github.com/dmitrymomot/chaoxing/core/session"
	"github.com/dmitrymomot/chaoxing/integration/database/redis"
	"github.com/dmitrymomot/chaoxing/integration/storage/s3"
)

// Session store backends.
const (
	StoreFile  = "file"
	StoreRedis = "redis"
	StoreS3    = "s3"
)

type Config struct {
	Session  session.Config
	Course   course.Config
	Playback playback.Config
	Redis    redis.Config
	S3       s3.Config

	Username  string `env:"CHAOXING_USERNAME"`
	Password  string `env:"CHAOXING_PASSWORD"`
	ChapterID string `env:"CHAOXING_CHAPTER_ID"`
	ClazzID   string `env:"CHAOXING_CLAZZ_ID"`
	CourseID  string `env:"CHAOXING_COURSE_ID"`

	AppName  string `env:"APP_NAME" envDefault:"chaoxing"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Validate reports the first missing required setting.
// The password is checked by the session manager, only when a login is needed.
func (c Config) Validate() error {
	required := []struct{ name, value string }{
		{"username", c.Username},
		{"chapter id", c.ChapterID},
		{"clazz id", c.ClazzID},
		{"course id", c.CourseID},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidConfig, r.name)
		}
	}

	switch c.Session.Store {
	case "", StoreFile, StoreRedis, StoreS3:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStore, c.Session.Store)
	}
	return nil
}

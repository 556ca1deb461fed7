package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/chaoxing/app/replay"
)

func TestParseFlags(t *testing.T) {
	t.Parallel()

	t.Run("flags override loaded values", func(t *testing.T) {
		t.Parallel()
		cfg := replay.Config{Username: "env-user", CourseID: "env-course"}
		cfg.Session.Store = replay.StoreFile

		forget, err := parseFlags(&cfg, []string{
			"-username", "flag-user",
			"-store", "redis",
			"-min-delay", "1s",
			"-forget",
		}, &bytes.Buffer{})
		require.NoError(t, err)

		assert.True(t, forget)
		assert.Equal(t, "flag-user", cfg.Username)
		assert.Equal(t, "env-course", cfg.CourseID)
		assert.Equal(t, replay.StoreRedis, cfg.Session.Store)
		assert.Equal(t, time.Second, cfg.Playback.MinDelay)
	})

	t.Run("positional arguments", func(t *testing.T) {
		t.Parallel()
		var cfg replay.Config
		forget, err := parseFlags(&cfg, []string{"u", "p", "ch", "cl", "co"}, &bytes.Buffer{})
		require.NoError(t, err)

		assert.False(t, forget)
		assert.Equal(t, "u", cfg.Username)
		assert.Equal(t, "p", cfg.Password)
		assert.Equal(t, "ch", cfg.ChapterID)
		assert.Equal(t, "cl", cfg.ClazzID)
		assert.Equal(t, "co", cfg.CourseID)
	})

	t.Run("rejects extra arguments and unknown flags", func(t *testing.T) {
		t.Parallel()
		var cfg replay.Config
		_, err := parseFlags(&cfg, []string{"1", "2", "3", "4", "5", "6"}, &bytes.Buffer{})
		assert.Error(t, err)

		_, err = parseFlags(&cfg, []string{"-nope"}, &bytes.Buffer{})
		assert.Error(t, err)
	})
}

func TestInitExitCode(t *testing.T) {
	t.Parallel()

	cfg := replay.Config{Username: "u", ChapterID: "ch", ClazzID: "cl", CourseID: "co"}

	missing := cfg
	missing.Username = ""
	_, err := replay.NewApp(context.Background(), missing)
	require.Error(t, err)
	assert.Equal(t, exitConfig, initExitCode(err))

	unknown := cfg
	unknown.Session.Store = "etcd"
	_, err = replay.NewApp(context.Background(), unknown)
	require.Error(t, err)
	assert.Equal(t, exitConfig, initExitCode(err))

	unreachable := cfg
	unreachable.Session.Store = replay.StoreRedis
	unreachable.Redis.ConnectionURL = "redis://127.0.0.1:1/0"
	unreachable.Redis.RetryInterval = time.Millisecond
	unreachable.Redis.ConnectTimeout = 200 * time.Millisecond
	_, err = replay.NewApp(context.Background(), unreachable)
	require.ErrorIs(t, err, replay.ErrOpenStore)
	assert.Equal(t, exitFailed, initExitCode(err))

	assert.Equal(t, exitFailed, initExitCode(errors.New("boom")))
}

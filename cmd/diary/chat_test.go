package main

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hanseolabs/diaryd/internal/fallback"
	"github.com/hanseolabs/diaryd/internal/i18n"
	"github.com/hanseolabs/diaryd/internal/quota"
)

func TestOfflineReplyNetworkFailureGetsNoQuotaNote(t *testing.T) {
	reply := offlineReply("server is down", nil, i18n.English, fallback.ReasonNetworkError)

	assert.Contains(t, reply, "(Server AI skipped: network error)")
	assert.NotContains(t, reply, "usage limit")
	assert.NotContains(t, reply, "offline questions")
}

func TestOfflineReplyQuotaReasonsKeepSwitchOverNote(t *testing.T) {
	tests := []struct {
		reason fallback.Reason
		note   string
	}{
		{fallback.ReasonDailyLimit, "You’ve reached today’s AI usage limit. Switching to offline questions."},
		{fallback.ReasonCooldown, "Please wait a moment—switching to offline questions."},
		{fallback.ReasonMessageTooLong, "Your message is too long, so I’ll switch to offline questions."},
	}
	for _, tt := range tests {
		reply := offlineReply("hello", nil, i18n.English, tt.reason)
		assert.True(t, strings.HasPrefix(reply, tt.note+"\n\n"), "reason %s: got %q", tt.reason, reply)
	}
}

func TestFallbackReason(t *testing.T) {
	assert.Equal(t, fallback.ReasonMessageTooLong,
		fallbackReason(&quota.Error{Reason: quota.ReasonMessageTooLong}))
	assert.Equal(t, fallback.ReasonCooldown,
		fallbackReason(&quota.Error{Reason: quota.ReasonRateLimited, NextAllowedIn: time.Minute}))
	assert.Equal(t, fallback.ReasonDailyLimit,
		fallbackReason(&quota.Error{Reason: quota.ReasonQuotaExceeded}))

	assert.Equal(t, fallback.ReasonNetworkError, fallbackReason(errors.New("boom")))
	assert.Equal(t, fallback.ReasonNetworkError, fallbackReason(nil))
}

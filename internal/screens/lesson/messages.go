package lesson

import (
	"time"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/session"
)

// startedMsg is sent when the engine has built the attempt.
type startedMsg struct {
	Err error
}

// gradedMsg carries the result of grading the current problem.
type gradedMsg struct {
	Result *session.Result
	Err    error
}

// advancedMsg is sent after moving past a graded problem.
type advancedMsg struct {
	Err error
}

// variationMsg is sent when a variation request finishes.
type variationMsg struct {
	Err error
}

// finishedMsg is sent once a completed attempt has been summarized.
type finishedMsg struct {
	Summary *session.Summary
	Placed  content.Difficulty
	Err     error
}

// explainTickMsg polls for a background explanation.
type explainTickMsg time.Time

// chatReplyMsg carries the tutor's reply to a chat message.
type chatReplyMsg struct {
	Reply string
	Err   error
}

// illustrationMsg is sent when an illustration has been written to disk.
type illustrationMsg struct {
	Path string
	Err  error
}

// exitedMsg is sent after the attempt was abandoned.
type exitedMsg struct{}

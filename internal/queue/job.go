package queue

import (
	"encoding/json"
	"time"
)

// Job statuses. Succeeded and failed are terminal.
const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Entity kinds an analysis job can target.
const (
	KindCVFeedback        = "cv-feedback"
	KindProfileExtraction = "profile-extraction"
	KindJobMatch          = "job-match"
)

// ValidKind reports whether kind names a supported analysis.
func ValidKind(kind string) bool {
	switch kind {
	case KindCVFeedback, KindProfileExtraction, KindJobMatch:
		return true
	}
	return false
}

// Job is a durable record of one analysis request.
type Job struct {
	ID           string    `json:"id"`
	EntityID     string    `json:"entityId"`
	EntityKind   string    `json:"entityKind"`
	Status       string    `json:"status"`
	AttemptCount int       `json:"attemptCount"`
	LastError    string    `json:"lastError,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Terminal reports whether the job can no longer transition.
func (j Job) Terminal() bool {
	return j.Status == StatusSucceeded || j.Status == StatusFailed
}

// JobKey identifies the single-flight slot a job occupies.
func JobKey(entityID, kind string) string {
	return entityID + "/" + kind
}

// Message is the payload delivered to queue consumers.
type Message struct {
	JobID      string `json:"jobId"`
	EntityID   string `json:"entityId"`
	EntityKind string `json:"entityKind"`
	EnqueuedAt string `json:"enqueuedAt"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}

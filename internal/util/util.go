package util

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewNotificationID returns a sortable id for one dispatched notification.
// ULIDs keep log lines and SQS deduplication ids time-ordered.
func NewNotificationID() string {
	t := time.Now().UTC()
	return "ntf_" + ulid.MustNew(ulid.Timestamp(t), rand.Reader).String()
}

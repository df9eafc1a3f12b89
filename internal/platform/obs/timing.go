package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

const SessionIDKey ctxKey = "session_id"

// WithSession tags ctx so that timed operations are attributed to a planning session.
func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, SessionIDKey, id)
}

func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(SessionIDKey).(string)
	return id
}

// Time logs the duration of op when the returned func is called, along with
// the error it points at, if any. Typical use: defer obs.Time(ctx, "op")(&err).
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	sessionID := SessionID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("session=%s op=%s dur=%dms err=%v", sessionID, name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("session=%s op=%s dur=%dms", sessionID, name, dur.Milliseconds())
	}
}

// Package store provides the durable key-value state shared by the
// dashboard pages. It mirrors the browser local-storage contract of the
// hosted product: fixed string keys, opaque JSON values, last write wins.
package store

// Keys of the durable state entries.
const (
	KeyChatHistory     = "chatHistory"
	KeyForecastData    = "forecastData"
	KeyLastCleanup     = "lastCleanup"
	KeyAssistantPrompt = "assistant_prompt"
	KeySession         = "session"
)

// Store is a minimal key-value persistence abstraction so the backend can
// be swapped without touching the state machines.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

package storage

// Storage keys. The names stay localStorage-compatible so a payload exported
// from a browser build can be dropped into the JSON store unchanged.
const (
	KeyEntries    = "journal-entries"
	KeySettings   = "journal-settings"
	KeyOnboarding = "journal-onboarding-complete"
)

// Provider is the host key-value store the journal persists into. Values are
// opaque strings; schema handling lives entirely with the callers.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Get returns the value for key and whether the key was present.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error

	// Utils
	GetConfigPath() string
}

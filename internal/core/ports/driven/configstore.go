package driven

// ConfigStore provides access to persisted application configuration.
// Keys use dot notation matching TOML tables, e.g. "llm.model".
type ConfigStore interface {
	// Get returns the raw value for key and whether it exists.
	Get(key string) (any, bool)

	// GetString returns the string at key, or "" when absent or not a string.
	GetString(key string) string

	// GetInt returns the integer at key, or 0 when absent or not an integer.
	GetInt(key string) int

	// GetFloat returns the number at key, or 0 when absent or not numeric.
	GetFloat(key string) float64

	// GetBool returns the boolean at key and whether it was set.
	GetBool(key string) (value, ok bool)

	// GetStringSlice returns the string list at key, or nil.
	GetStringSlice(key string) []string

	// Set stores a value and persists immediately.
	Set(key string, value any) error

	// Unset removes a key and persists immediately.
	Unset(key string) error

	// Keys returns every stored key in sorted order.
	Keys() []string

	// Path returns the configuration file path.
	Path() string
}

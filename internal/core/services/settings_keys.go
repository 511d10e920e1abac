package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driven"
)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyChunkStrategy    = "chunking.strategy"
	keyChunkMaxChars    = "chunking.max_chars"
	keyChunkOverlap     = "chunking.overlap"
	keyEmbedProvider    = "embedding.provider"
	keyEmbedModel       = "embedding.model"
	keyEmbedBaseURL     = "embedding.base_url"
	keyEmbedAPIKey      = "embedding.api_key"
	keyEmbedRPS         = "embedding.requests_per_second"
	keyEmbedTimeout     = "embedding.timeout"
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keyLLMTimeout       = "llm.timeout"
	keyVectorBackend    = "vector_index.backend"
	keyVectorDSN        = "vector_index.dsn"
	keyVectorURL        = "vector_index.url"
	keyVectorCollection = "vector_index.collection"
	keyVectorDims       = "vector_index.dimensions"
	keyIngestAutoIndex  = "ingest.auto_index"
	keyServerAddr       = "server.addr"
	keyServerCORS       = "server.cors_origins"
	keyServerBodyLimit  = "server.body_limit_mb"
	keyPDFLicenseKey    = "extraction.pdf_license_key"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RAGLINE_"

// EnvName returns the environment variable that overrides key,
// e.g. "llm.api_key" -> "RAGLINE_LLM_API_KEY".
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// setting binds one config key to a field of domain.AppSettings.
type setting struct {
	key    string
	secret bool

	// load copies a stored value into s. Invalid values are ignored.
	load func(store driven.ConfigStore, s *domain.AppSettings)

	// parse validates raw and assigns it to s.
	parse func(s *domain.AppSettings, raw string) error

	// value returns the field as a TOML-encodable value.
	value func(s *domain.AppSettings) any

	// format renders the field for display.
	format func(s *domain.AppSettings) string
}

func invalidValue(key, raw string, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %q: %w", domain.ErrInvalidInput, key, raw, err)
	}
	return fmt.Errorf("%w: %s: unsupported value %q", domain.ErrInvalidInput, key, raw)
}

func stringSetting(key string, field func(*domain.AppSettings) *string, valid func(string) bool) setting {
	return setting{
		key: key,
		load: func(store driven.ConfigStore, s *domain.AppSettings) {
			if v := store.GetString(key); v != "" && (valid == nil || valid(v)) {
				*field(s) = v
			}
		},
		parse: func(s *domain.AppSettings, raw string) error {
			raw = strings.TrimSpace(raw)
			if valid != nil && !valid(raw) {
				return invalidValue(key, raw, nil)
			}
			*field(s) = raw
			return nil
		},
		value:  func(s *domain.AppSettings) any { return *field(s) },
		format: func(s *domain.AppSettings) string { return *field(s) },
	}
}

func secretSetting(key string, field func(*domain.AppSettings) *string) setting {
	st := stringSetting(key, field, nil)
	st.secret = true
	return st
}

func intSetting(key string, field func(*domain.AppSettings) *int, minVal int) setting {
	return setting{
		key: key,
		load: func(store driven.ConfigStore, s *domain.AppSettings) {
			if _, ok := store.Get(key); !ok {
				return
			}
			if v := store.GetInt(key); v >= minVal {
				*field(s) = v
			}
		},
		parse: func(s *domain.AppSettings, raw string) error {
			v, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return invalidValue(key, raw, err)
			}
			if v < minVal {
				return invalidValue(key, raw, fmt.Errorf("must be at least %d", minVal))
			}
			*field(s) = v
			return nil
		},
		value:  func(s *domain.AppSettings) any { return *field(s) },
		format: func(s *domain.AppSettings) string { return strconv.Itoa(*field(s)) },
	}
}

func floatSetting(key string, field func(*domain.AppSettings) *float64) setting {
	return setting{
		key: key,
		load: func(store driven.ConfigStore, s *domain.AppSettings) {
			if _, ok := store.Get(key); !ok {
				return
			}
			if v := store.GetFloat(key); v >= 0 {
				*field(s) = v
			}
		},
		parse: func(s *domain.AppSettings, raw string) error {
			v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return invalidValue(key, raw, err)
			}
			if v < 0 {
				return invalidValue(key, raw, fmt.Errorf("must not be negative"))
			}
			*field(s) = v
			return nil
		},
		value:  func(s *domain.AppSettings) any { return *field(s) },
		format: func(s *domain.AppSettings) string { return strconv.FormatFloat(*field(s), 'g', -1, 64) },
	}
}

func boolSetting(key string, field func(*domain.AppSettings) *bool) setting {
	return setting{
		key: key,
		load: func(store driven.ConfigStore, s *domain.AppSettings) {
			if v, ok := store.GetBool(key); ok {
				*field(s) = v
			}
		},
		parse: func(s *domain.AppSettings, raw string) error {
			v, err := strconv.ParseBool(strings.TrimSpace(raw))
			if err != nil {
				return invalidValue(key, raw, err)
			}
			*field(s) = v
			return nil
		},
		value:  func(s *domain.AppSettings) any { return *field(s) },
		format: func(s *domain.AppSettings) string { return strconv.FormatBool(*field(s)) },
	}
}

func durationSetting(key string, field func(*domain.AppSettings) *time.Duration) setting {
	parse := func(raw string) (time.Duration, error) {
		d, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil {
			return 0, err
		}
		if d <= 0 {
			return 0, fmt.Errorf("must be positive")
		}
		return d, nil
	}
	return setting{
		key: key,
		load: func(store driven.ConfigStore, s *domain.AppSettings) {
			if d, err := parse(store.GetString(key)); err == nil {
				*field(s) = d
			}
		},
		parse: func(s *domain.AppSettings, raw string) error {
			d, err := parse(raw)
			if err != nil {
				return invalidValue(key, raw, err)
			}
			*field(s) = d
			return nil
		},
		value:  func(s *domain.AppSettings) any { return field(s).String() },
		format: func(s *domain.AppSettings) string { return field(s).String() },
	}
}

// listSetting reads a TOML array from the file and a comma-separated list
// from the environment or the command line.
func listSetting(key string, field func(*domain.AppSettings) *[]string) setting {
	return setting{
		key: key,
		load: func(store driven.ConfigStore, s *domain.AppSettings) {
			if _, ok := store.Get(key); !ok {
				return
			}
			*field(s) = store.GetStringSlice(key)
		},
		parse: func(s *domain.AppSettings, raw string) error {
			var out []string
			for _, part := range strings.Split(raw, ",") {
				if p := strings.TrimSpace(part); p != "" {
					out = append(out, p)
				}
			}
			*field(s) = out
			return nil
		},
		value:  func(s *domain.AppSettings) any { return *field(s) },
		format: func(s *domain.AppSettings) string { return strings.Join(*field(s), ",") },
	}
}

func validProvider(v string) bool { return domain.AIProvider(v).IsValid() }

func validEmbeddingProvider(v string) bool { return domain.AIProvider(v).SupportsEmbeddings() }

func validBackend(v string) bool { return domain.VectorBackend(v).IsValid() }

func validStrategy(v string) bool { return domain.ChunkStrategy(v).IsValid() }

// settings lists every configurable key in display order.
var settingTable = []setting{
	stringSetting(keyChunkStrategy, func(s *domain.AppSettings) *string {
		return (*string)(&s.Chunking.Strategy)
	}, validStrategy),
	intSetting(keyChunkMaxChars, func(s *domain.AppSettings) *int { return &s.Chunking.MaxChars }, 1),
	intSetting(keyChunkOverlap, func(s *domain.AppSettings) *int { return &s.Chunking.Overlap }, 0),

	stringSetting(keyEmbedProvider, func(s *domain.AppSettings) *string {
		return (*string)(&s.Embedding.Provider)
	}, validEmbeddingProvider),
	stringSetting(keyEmbedModel, func(s *domain.AppSettings) *string { return &s.Embedding.Model }, nil),
	stringSetting(keyEmbedBaseURL, func(s *domain.AppSettings) *string { return &s.Embedding.BaseURL }, nil),
	secretSetting(keyEmbedAPIKey, func(s *domain.AppSettings) *string { return &s.Embedding.APIKey }),
	floatSetting(keyEmbedRPS, func(s *domain.AppSettings) *float64 { return &s.Embedding.RequestsPerSecond }),
	durationSetting(keyEmbedTimeout, func(s *domain.AppSettings) *time.Duration { return &s.Embedding.Timeout }),

	stringSetting(keyLLMProvider, func(s *domain.AppSettings) *string {
		return (*string)(&s.LLM.Provider)
	}, validProvider),
	stringSetting(keyLLMModel, func(s *domain.AppSettings) *string { return &s.LLM.Model }, nil),
	stringSetting(keyLLMBaseURL, func(s *domain.AppSettings) *string { return &s.LLM.BaseURL }, nil),
	secretSetting(keyLLMAPIKey, func(s *domain.AppSettings) *string { return &s.LLM.APIKey }),
	durationSetting(keyLLMTimeout, func(s *domain.AppSettings) *time.Duration { return &s.LLM.Timeout }),

	stringSetting(keyVectorBackend, func(s *domain.AppSettings) *string {
		return (*string)(&s.VectorIndex.Backend)
	}, validBackend),
	secretSetting(keyVectorDSN, func(s *domain.AppSettings) *string { return &s.VectorIndex.DSN }),
	stringSetting(keyVectorURL, func(s *domain.AppSettings) *string { return &s.VectorIndex.URL }, nil),
	stringSetting(keyVectorCollection, func(s *domain.AppSettings) *string { return &s.VectorIndex.Collection }, nil),
	intSetting(keyVectorDims, func(s *domain.AppSettings) *int { return &s.VectorIndex.Dimensions }, 1),

	boolSetting(keyIngestAutoIndex, func(s *domain.AppSettings) *bool { return &s.Ingest.AutoIndex }),

	stringSetting(keyServerAddr, func(s *domain.AppSettings) *string { return &s.Server.Addr }, nil),
	listSetting(keyServerCORS, func(s *domain.AppSettings) *[]string { return &s.Server.CORSOrigins }),
	intSetting(keyServerBodyLimit, func(s *domain.AppSettings) *int { return &s.Server.BodyLimitMB }, 1),

	secretSetting(keyPDFLicenseKey, func(s *domain.AppSettings) *string { return &s.Extraction.PDFLicenseKey }),
}

func lookupSetting(key string) (setting, bool) {
	for _, st := range settingTable {
		if st.key == key {
			return st, true
		}
	}
	return setting{}, false
}

// SettingKeys returns every configurable key in display order.
func SettingKeys() []string {
	keys := make([]string, len(settingTable))
	for i, st := range settingTable {
		keys[i] = st.key
	}
	return keys
}

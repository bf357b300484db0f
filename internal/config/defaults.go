package config

const (
	defaultLogDir      = "~/.local/share/watchnext/logs"
	defaultCatalogPath = "~/.local/share/watchnext/catalog.db"
	defaultAPIBind     = "127.0.0.1:7979"

	defaultTMDBBaseURL      = "https://api.themoviedb.org/3"
	defaultTMDBLanguage     = "en-US"
	defaultTMDBImageBaseURL = "https://image.tmdb.org/t/p"
	defaultTMDBPosterSize   = "w500"

	defaultFetchRetries        = 3
	defaultFetchRetryDelay     = 2
	defaultFetchRequestTimeout = 10

	defaultPageSize   = 15
	defaultBatchSize  = 5
	defaultSessionTTL = 60
)

// Default returns the baseline configuration before any file or environment
// overrides are applied.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Catalog: Catalog{
			Path: defaultCatalogPath,
		},
		TMDB: TMDB{
			BaseURL:      defaultTMDBBaseURL,
			Language:     defaultTMDBLanguage,
			ImageBaseURL: defaultTMDBImageBaseURL,
			PosterSize:   defaultTMDBPosterSize,
		},
		Fetch: Fetch{
			Retries:        defaultFetchRetries,
			RetryDelay:     defaultFetchRetryDelay,
			RequestTimeout: defaultFetchRequestTimeout,
		},
		Browse: Browse{
			PageSize:   defaultPageSize,
			BatchSize:  defaultBatchSize,
			SessionTTL: defaultSessionTTL,
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}

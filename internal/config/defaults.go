package config

const (
	defaultDataDir          = "~/.local/share/profmatch"
	defaultDatabaseName     = "ProcessedData.db"
	defaultCacheName        = "rmp_cache.json"
	defaultLogDir           = "~/.local/share/profmatch/logs"
	defaultProviderBaseURL  = "https://www.ratemyprofessors.com"
	defaultSchoolID         = "U2Nob29sLTM2MQ=="
	defaultSchoolName       = "Georgia Institute of Technology"
	defaultAuthUser         = "test"
	defaultAuthPassword     = "test"
	defaultRequestTimeout   = 10
	defaultPageSize         = 25
	defaultMinIntervalMS    = 250
	defaultPositiveTTLDays  = 180
	defaultNegativeTTLDays  = 14
	defaultFuzzyThreshold   = 0.85
	defaultAcceptConfidence = 0.90
	defaultReviewConfidence = 0.75
	defaultWorkers          = 5
	defaultNotifyTimeout    = 10
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Provider: Provider{
			BaseURL:        defaultProviderBaseURL,
			SchoolID:       defaultSchoolID,
			SchoolName:     defaultSchoolName,
			AuthUser:       defaultAuthUser,
			AuthPassword:   defaultAuthPassword,
			RequestTimeout: defaultRequestTimeout,
			PageSize:       defaultPageSize,
			MinIntervalMS:  defaultMinIntervalMS,
		},
		Cache: Cache{
			PositiveTTLDays: defaultPositiveTTLDays,
			NegativeTTLDays: defaultNegativeTTLDays,
		},
		Matching: Matching{
			FuzzyThreshold:   defaultFuzzyThreshold,
			AcceptConfidence: defaultAcceptConfidence,
			ReviewConfidence: defaultReviewConfidence,
		},
		Enrichment: Enrichment{
			Workers:       defaultWorkers,
			FixDuplicates: true,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

package clients

import "time"

const (
	MAX_RETRIES     = 3
	INITIAL_BACKOFF = 500 * time.Millisecond
	MAX_BACKOFF     = 8 * time.Second
	USER_AGENT      = "sentiflow-vader/1.0 (+https://github.com/spacesedan/sentiflow-vader)"

	GOOGLE_TRANSLATE_ENDPOINT = "https://translate.googleapis.com/translate_a/single"
	TRANSLATION_CACHE_TTL     = 24 * time.Hour
	TRANSLATION_CACHE_PREFIX  = "translation:"

	SOURCE_AUTO    = "auto"
	TARGET_ENGLISH = "en"
)

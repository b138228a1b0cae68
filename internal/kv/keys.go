package kv

// Persisted keys. The names match what earlier releases wrote; settings
// blobs using the older field names decode through model.SettingsPatch.
const (
	KeySettings       = "pomodoro-settings"
	KeyTodos          = "pomodoro-todos"
	KeySelectedTag    = "pomodoro-selected-tag"
	KeyCompletedCount = "pomodoro-completed-today"
	KeyDailyQuote     = "daily-quote"
	KeyThemePalette   = "theme-palette"
	KeyLayout         = "deepwork-layout-preference"
	KeyAmbientURL     = "app.youtube.custom_url.v1"
)

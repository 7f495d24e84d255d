package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyDownload          = "download"
	KeySettings          = "settings"
	KeyFile              = "file"
	KeyLanguage          = "language"
	KeyDownloadDirectory = "download_directory"
	KeyQuality           = "quality"
	KeyPlaylistWindow    = "playlist_window"
	KeyPlaylistDelay     = "playlist_delay"
	KeyCookiesFile       = "cookies_file"
	KeyFFmpegLocation    = "ffmpeg_location"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeyBrowse            = "browse"
	KeyEnterURL          = "enter_url"
	KeySettingsSaved     = "settings_saved"
	KeyInvalidURL        = "invalid_url"
	KeyPleaseEnterURL    = "please_enter_url"
	KeyResolving         = "resolving"
	KeyTaskAdded         = "task_added"
	KeySubmitFailed      = "submit_failed"
	KeyClearPending      = "clear_pending"
	KeyPendingCleared    = "pending_cleared"
	KeyPause             = "pause"
	KeyContinue          = "continue"
	KeySoftCancel        = "soft_cancel"
	KeyResume            = "resume"
	KeyDelete            = "delete"
	KeyRetry             = "retry"
	KeyClose             = "close"
	KeyOpenFolder        = "open_folder"
	KeyConfirmDelete     = "confirm_delete"
	KeyCleanupTitle      = "cleanup_title"
	KeyFilesRemoved      = "files_removed"
	KeyErrorOpeningDir   = "error_opening_dir"
	KeyNoMerger          = "no_merger"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
	}
}

func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "YT Queue",
		KeyDownload:          "Download",
		KeySettings:          "Settings",
		KeyFile:              "File",
		KeyLanguage:          "Language",
		KeyDownloadDirectory: "Download Directory",
		KeyQuality:           "Quality",
		KeyPlaylistWindow:    "Playlist window (parallel items)",
		KeyPlaylistDelay:     "Delay between windows (ms)",
		KeyCookiesFile:       "Cookies file",
		KeyFFmpegLocation:    "ffmpeg location",
		KeySave:              "Save",
		KeyCancel:            "Cancel",
		KeyBrowse:            "Browse",
		KeyEnterURL:          "Video or playlist URL (https://...)",
		KeySettingsSaved:     "Settings saved. New downloads use them.",
		KeyInvalidURL:        "Invalid URL",
		KeyPleaseEnterURL:    "Please enter a URL",
		KeyResolving:         "Resolving URL...",
		KeyTaskAdded:         "Added to queue",
		KeySubmitFailed:      "Could not add URL",
		KeyClearPending:      "Clear pending",
		KeyPendingCleared:    "Pending playlist items removed: %d",
		KeyPause:             "Pause",
		KeyContinue:          "Continue",
		KeySoftCancel:        "Cancel",
		KeyResume:            "Resume",
		KeyDelete:            "Delete",
		KeyRetry:             "Retry",
		KeyClose:             "Close",
		KeyOpenFolder:        "Open folder",
		KeyConfirmDelete:     "Delete the downloaded parts of \"%s\"?",
		KeyCleanupTitle:      "Delete",
		KeyFilesRemoved:      "Files removed: %d",
		KeyErrorOpeningDir:   "Error opening folder",
		KeyNoMerger:          "ffmpeg not found: videos are downloaded as a single file",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "YT Очередь",
		KeyDownload:          "Скачать",
		KeySettings:          "Настройки",
		KeyFile:              "Файл",
		KeyLanguage:          "Язык",
		KeyDownloadDirectory: "Папка загрузки",
		KeyQuality:           "Качество",
		KeyPlaylistWindow:    "Окно плейлиста (параллельно)",
		KeyPlaylistDelay:     "Пауза между окнами (мс)",
		KeyCookiesFile:       "Файл cookies",
		KeyFFmpegLocation:    "Путь к ffmpeg",
		KeySave:              "Сохранить",
		KeyCancel:            "Отмена",
		KeyBrowse:            "Обзор",
		KeyEnterURL:          "URL видео или плейлиста (https://...)",
		KeySettingsSaved:     "Настройки сохранены. Применяются к новым загрузкам.",
		KeyInvalidURL:        "Неверный URL",
		KeyPleaseEnterURL:    "Пожалуйста, введите URL",
		KeyResolving:         "Получение информации...",
		KeyTaskAdded:         "Добавлено в очередь",
		KeySubmitFailed:      "Не удалось добавить URL",
		KeyClearPending:      "Очистить ожидание",
		KeyPendingCleared:    "Удалено ожидающих элементов плейлиста: %d",
		KeyPause:             "Пауза",
		KeyContinue:          "Продолжить",
		KeySoftCancel:        "Отмена",
		KeyResume:            "Возобновить",
		KeyDelete:            "Удалить",
		KeyRetry:             "Повторить",
		KeyClose:             "Закрыть",
		KeyOpenFolder:        "Открыть папку",
		KeyConfirmDelete:     "Удалить загруженные части \"%s\"?",
		KeyCleanupTitle:      "Удаление",
		KeyFilesRemoved:      "Удалено файлов: %d",
		KeyErrorOpeningDir:   "Ошибка открытия папки",
		KeyNoMerger:          "ffmpeg не найден: видео скачиваются одним файлом",
	}
}

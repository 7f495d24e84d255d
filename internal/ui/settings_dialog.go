package ui

import (
	"sort"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-queue/internal/config"
)

// SettingsDialog edits the persisted preferences
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	downloadDirEntry *widget.Entry
	qualitySelect    *widget.Select
	windowEntry      *widget.Entry
	delayEntry       *widget.Entry
	cookiesEntry     *widget.Entry
	ffmpegEntry      *widget.Entry
	languageSelect   *widget.Select
}

// NewSettingsDialog creates a new settings dialog. onSaved runs after the
// preferences were written.
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func (sd *SettingsDialog) createUI() {
	l := sd.localization

	sd.downloadDirEntry = widget.NewEntry()
	browseDirBtn := widget.NewButton(l.GetText(KeyBrowse), sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	qualityOptions := make([]string, 0, len(config.Qualities()))
	for _, q := range config.Qualities() {
		qualityOptions = append(qualityOptions, string(q))
	}
	sd.qualitySelect = widget.NewSelect(qualityOptions, nil)

	sd.windowEntry = widget.NewEntry()
	sd.windowEntry.SetPlaceHolder("1-50")
	sd.delayEntry = widget.NewEntry()
	sd.delayEntry.SetPlaceHolder("1200")

	sd.cookiesEntry = widget.NewEntry()
	sd.cookiesEntry.SetPlaceHolder("cookies.txt")
	sd.ffmpegEntry = widget.NewEntry()
	sd.ffmpegEntry.SetPlaceHolder("/usr/local/bin")

	languageOptions := make([]string, 0)
	for code := range sd.settings.GetLanguageOptions() {
		languageOptions = append(languageOptions, code)
	}
	sort.Strings(languageOptions)
	sd.languageSelect = widget.NewSelect(languageOptions, nil)

	form := widget.NewForm(
		widget.NewFormItem(l.GetText(KeyDownloadDirectory), downloadDirRow),
		widget.NewFormItem(l.GetText(KeyQuality), sd.qualitySelect),
		widget.NewFormItem(l.GetText(KeyPlaylistWindow), sd.windowEntry),
		widget.NewFormItem(l.GetText(KeyPlaylistDelay), sd.delayEntry),
		widget.NewFormItem(l.GetText(KeyCookiesFile), sd.cookiesEntry),
		widget.NewFormItem(l.GetText(KeyFFmpegLocation), sd.ffmpegEntry),
		widget.NewFormItem(l.GetText(KeyLanguage), sd.languageSelect),
	)

	sd.dialog = dialog.NewCustomConfirm(
		l.GetText(KeySettings),
		l.GetText(KeySave),
		l.GetText(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)
	sd.dialog.Resize(fyne.NewSize(560, 420))
}

func (sd *SettingsDialog) loadCurrentSettings() {
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.qualitySelect.SetSelected(string(sd.settings.GetQuality()))
	sd.windowEntry.SetText(strconv.Itoa(sd.settings.GetPlaylistWindow()))
	sd.delayEntry.SetText(strconv.Itoa(sd.settings.GetPlaylistDelayMS()))
	sd.cookiesEntry.SetText(sd.settings.GetCookiesFile())
	sd.ffmpegEntry.SetText(sd.settings.GetFFmpegLocation())
	sd.languageSelect.SetSelected(sd.settings.GetLanguage())
}

func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	sd.apply()
	if sd.onSaved != nil {
		sd.onSaved()
	}
	dialog.ShowInformation(sd.localization.GetText(KeySettings), sd.localization.GetText(KeySettingsSaved), sd.window)
}

// apply writes the form into the preferences; unparsable numbers keep the
// stored value
func (sd *SettingsDialog) apply() {
	if dir := sd.downloadDirEntry.Text; dir != "" {
		sd.settings.SetDownloadDirectory(dir)
	}
	if q, err := config.ParseQuality(sd.qualitySelect.Selected); err == nil {
		sd.settings.SetQuality(q)
	}
	if n, err := strconv.Atoi(sd.windowEntry.Text); err == nil {
		sd.settings.SetPlaylistWindow(n)
	}
	if ms, err := strconv.Atoi(sd.delayEntry.Text); err == nil {
		sd.settings.SetPlaylistDelayMS(ms)
	}
	sd.settings.SetCookiesFile(sd.cookiesEntry.Text)
	sd.settings.SetFFmpegLocation(sd.ffmpegEntry.Text)
	if sd.languageSelect.Selected != "" {
		sd.settings.SetLanguage(sd.languageSelect.Selected)
	}
}

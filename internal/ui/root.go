package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-queue/internal/config"
	"github.com/ytget/yt-queue/internal/download"
	"github.com/ytget/yt-queue/internal/events"
	"github.com/ytget/yt-queue/internal/model"
	"github.com/ytget/yt-queue/internal/platform"
)

// RootUI represents the main window. It owns the download service; all
// service calls happen on the Fyne goroutine.
type RootUI struct {
	window       fyne.Window
	svc          download.Controller
	settings     *config.Settings
	localization *Localization

	urlEntry    *widget.Entry
	dirEntry    *widget.Entry
	downloadBtn *widget.Button
	browseBtn   *widget.Button
	clearBtn    *widget.Button

	rows     map[string]*TaskRow
	taskList *fyne.Container

	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationSeq       int

	stop context.CancelFunc
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, svc download.Controller, settings *config.Settings) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		svc:          svc,
		settings:     settings,
		localization: localization,
		rows:         make(map[string]*TaskRow),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))
	ui.setupUI()

	if !svc.MergerAvailable() {
		ui.showNotification(localization.GetText(KeyNoMerger))
	}
	return ui
}

// Start runs the control loop until the window closes
func (ui *RootUI) Start(interval time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	ui.stop = cancel
	ui.window.SetOnClosed(ui.shutdown)

	go download.Loop(ctx, interval, fyne.DoAndWait, ui.tick)
}

func (ui *RootUI) shutdown() {
	if ui.stop != nil {
		ui.stop()
	}
	ui.svc.Shutdown()
}

func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.urlEntry.Validator = validateURL
	ui.urlEntry.OnSubmitted = func(string) {
		ui.onDownloadClick()
	}
	ui.downloadBtn = widget.NewButton(ui.localization.GetText(KeyDownload), ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	ui.dirEntry = widget.NewEntry()
	ui.dirEntry.SetText(ui.settings.GetDownloadDirectory())
	ui.browseBtn = widget.NewButton(ui.localization.GetText(KeyBrowse), ui.onBrowseDirectory)
	ui.clearBtn = widget.NewButton(ui.localization.GetText(KeyClearPending), ui.onClearPending)

	urlRow := container.NewBorder(nil, nil, settingsBtn, ui.downloadBtn, ui.urlEntry)
	dirRow := container.NewBorder(nil, nil, widget.NewLabel(IconFolder), container.NewHBox(ui.browseBtn, ui.clearBtn), ui.dirEntry)

	ui.notificationLabel = widget.NewLabel("")
	ui.notificationLabel.Wrapping = fyne.TextWrapWord
	ui.notificationContainer = container.NewPadded(ui.notificationLabel)
	ui.notificationContainer.Hide()

	ui.taskList = container.NewVBox()
	top := container.NewVBox(urlRow, dirRow, ui.notificationContainer)

	ui.window.SetContent(container.NewBorder(top, nil, nil, nil, container.NewVScroll(ui.taskList)))
}

func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		item := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		item.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, item)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		languageMenu,
	))
}

func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.downloadBtn.SetText(ui.localization.GetText(KeyDownload))
	ui.browseBtn.SetText(ui.localization.GetText(KeyBrowse))
	ui.clearBtn.SetText(ui.localization.GetText(KeyClearPending))
	for _, row := range ui.rows {
		row.RefreshTexts()
	}
}

// validateURL accepts empty input and http(s) URLs
func validateURL(input string) error {
	if strings.TrimSpace(input) == "" {
		return nil
	}

	parsedURL, err := url.Parse(strings.TrimSpace(input))
	if err != nil {
		return err
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("URL must start with http:// or https://")
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("URL has no host")
	}
	return nil
}

func (ui *RootUI) onDownloadClick() {
	urlText := cleanText(ui.urlEntry.Text)
	if urlText == "" {
		ui.showNotification(ui.localization.GetText(KeyPleaseEnterURL))
		return
	}
	if err := validateURL(urlText); err != nil {
		ui.showNotification(ui.localization.GetText(KeyInvalidURL) + ": " + err.Error())
		return
	}

	dir := strings.TrimSpace(ui.dirEntry.Text)
	if dir == "" {
		dir = ui.settings.GetDownloadDirectory()
	}
	if dir != ui.settings.GetDownloadDirectory() {
		ui.settings.SetDownloadDirectory(dir)
	}

	log.Printf("Submitting URL: %s", urlText)
	if err := ui.svc.Submit(urlText, dir); err != nil {
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeySubmitFailed), err), ui.window)
		return
	}
	ui.urlEntry.SetText("")
	ui.showNotification(ui.localization.GetText(KeyResolving))
}

func (ui *RootUI) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		ui.dirEntry.SetText(uri.Path())
		ui.settings.SetDownloadDirectory(uri.Path())
	}, ui.window)
}

func (ui *RootUI) onClearPending() {
	n := ui.svc.ClearPendingBatches()
	ui.showNotification(fmt.Sprintf(ui.localization.GetText(KeyPendingCleared), n))
}

func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.localization, ui.window, func() {
		ui.svc.SetConfig(ui.settings.DownloadConfig())
		ui.dirEntry.SetText(ui.settings.GetDownloadDirectory())
		if lang := ui.settings.GetLanguage(); lang != ui.localization.GetCurrentLanguage() {
			ui.onLanguageChange(lang)
		}
	}).Show()
}

// tick runs on the Fyne goroutine for every loop interval
func (ui *RootUI) tick() {
	evs := ui.svc.Poll()
	if len(evs) == 0 {
		return
	}
	ui.handleEvents(evs)
	ui.syncRows()
}

func (ui *RootUI) handleEvents(evs []events.Event) {
	for _, ev := range evs {
		switch ev.Kind {
		case events.KindProbed:
			ui.showNotification(ui.localization.GetText(KeyTaskAdded))
		case events.KindFailed:
			msg := ui.localization.GetText(KeySubmitFailed)
			if ev.Err != nil {
				msg += ": " + ev.Err.Error()
			}
			ui.showNotification(msg)
		case events.KindRemoved:
			ui.showCleanupReport(ev.Cleanup)
		}
	}
}

func (ui *RootUI) showCleanupReport(report *model.CleanupReport) {
	if report == nil {
		return
	}
	if report.HasErrors() {
		dialog.ShowInformation(ui.localization.GetText(KeyCleanupTitle), report.Summary(model.DefaultCleanupErrorLimit), ui.window)
		return
	}
	ui.showNotification(fmt.Sprintf(ui.localization.GetText(KeyFilesRemoved), report.Removed))
}

// syncRows adds, updates and removes rows to match the service's tasks
func (ui *RootUI) syncRows() {
	tasks := ui.svc.GetAllTasks()
	seen := make(map[string]struct{}, len(tasks))

	for _, task := range tasks {
		seen[task.ID] = struct{}{}
		if row, ok := ui.rows[task.ID]; ok {
			row.UpdateTask(task)
			continue
		}
		row := NewTaskRow(task, ui.localization, ui.rowActions())
		ui.rows[task.ID] = row
		ui.taskList.Add(row)
	}

	for id, row := range ui.rows {
		if _, ok := seen[id]; !ok {
			ui.taskList.Remove(row)
			delete(ui.rows, id)
		}
	}
	ui.taskList.Refresh()
}

func (ui *RootUI) rowActions() RowActions {
	return RowActions{
		PauseToggle: ui.action(ui.svc.PauseToggle),
		SoftCancel:  ui.action(ui.svc.SoftCancel),
		Resume:      ui.action(ui.svc.Resume),
		Retry:       ui.action(ui.svc.Retry),
		Close:       ui.action(ui.svc.Close),
		Delete:      ui.confirmDelete,
		OpenFolder:  ui.openFolder,
	}
}

// action wraps a service call with error reporting and a row refresh
func (ui *RootUI) action(fn func(id string) error) func(string) {
	return func(id string) {
		if err := fn(id); err != nil {
			log.Printf("action on task %s failed: %v", id, err)
			if !errors.Is(err, download.ErrTaskNotFound) {
				ui.showNotification(err.Error())
			}
		}
		ui.syncRows()
	}
}

func (ui *RootUI) confirmDelete(id string) {
	task, ok := ui.svc.GetTask(id)
	if !ok {
		return
	}
	msg := fmt.Sprintf(ui.localization.GetText(KeyConfirmDelete), task.GetDisplayTitle())
	dialog.ShowConfirm(ui.localization.GetText(KeyDelete), msg, func(confirmed bool) {
		if confirmed {
			ui.action(ui.svc.Delete)(id)
		}
	}, ui.window)
}

func (ui *RootUI) openFolder(id string) {
	task, ok := ui.svc.GetTask(id)
	if !ok {
		return
	}
	if err := platform.OpenFolder(task.OutputDir); err != nil {
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyErrorOpeningDir), err), ui.window)
	}
}

// showNotification displays a message under the URL row; it hides itself
// unless a newer message replaced it
func (ui *RootUI) showNotification(message string) {
	ui.notificationSeq++
	seq := ui.notificationSeq
	ui.notificationLabel.SetText(message)
	ui.notificationContainer.Show()

	time.AfterFunc(NotificationAutoHide, func() {
		fyne.Do(func() {
			if ui.notificationSeq == seq {
				ui.notificationContainer.Hide()
			}
		})
	})
}

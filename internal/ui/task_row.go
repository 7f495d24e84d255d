package ui

import (
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-queue/internal/model"
)

// RowMode selects which actions a row offers
type RowMode int

const (
	// RowNormal offers pause/continue and cancel
	RowNormal RowMode = iota
	// RowSoftCancelled offers resume and delete
	RowSoftCancelled
	// RowDone offers close and open folder
	RowDone
	// RowFailed offers retry, delete and close
	RowFailed
	// RowDisabled offers nothing while delete is in flight
	RowDisabled
)

// RowModeFor maps a task state to the row's action set
func RowModeFor(state model.TaskState) RowMode {
	switch state {
	case model.StateSoftCancelled:
		return RowSoftCancelled
	case model.StateDone:
		return RowDone
	case model.StateCancelled, model.StateError:
		return RowFailed
	case model.StateDeleting:
		return RowDisabled
	default:
		return RowNormal
	}
}

// RowActions are invoked with the task ID
type RowActions struct {
	PauseToggle func(taskID string)
	SoftCancel  func(taskID string)
	Resume      func(taskID string)
	Delete      func(taskID string)
	Retry       func(taskID string)
	Close       func(taskID string)
	OpenFolder  func(taskID string)
}

// TaskRow renders one task
type TaskRow struct {
	widget.BaseWidget

	task         model.DownloadTask
	mode         RowMode
	localization *Localization
	actions      RowActions

	titleLabel   *widget.Label
	statusLabel  *widget.Label
	metricsLabel *widget.Label
	percentLabel *widget.Label
	progressBar  *widget.ProgressBar
	progressInf  *widget.ProgressBarInfinite

	pauseBtn  *widget.Button
	cancelBtn *widget.Button
	resumeBtn *widget.Button
	deleteBtn *widget.Button
	retryBtn  *widget.Button
	closeBtn  *widget.Button
	folderBtn *widget.Button

	content fyne.CanvasObject
}

// NewTaskRow creates a row for task
func NewTaskRow(task model.DownloadTask, localization *Localization, actions RowActions) *TaskRow {
	tr := &TaskRow{localization: localization, actions: actions}
	tr.ExtendBaseWidget(tr)
	tr.createUI()
	tr.UpdateTask(task)
	return tr
}

// Task returns the view last rendered
func (tr *TaskRow) Task() model.DownloadTask {
	return tr.task
}

// Mode returns the current action set
func (tr *TaskRow) Mode() RowMode {
	return tr.mode
}

// UpdateTask re-renders the row from task
func (tr *TaskRow) UpdateTask(task model.DownloadTask) {
	tr.task = task
	tr.mode = RowModeFor(task.State)
	tr.updateFromTask()
	tr.updateButtons()
}

// RefreshTexts re-applies localized button captions
func (tr *TaskRow) RefreshTexts() {
	tr.cancelBtn.SetText(tr.localization.GetText(KeySoftCancel))
	tr.resumeBtn.SetText(tr.localization.GetText(KeyResume))
	tr.deleteBtn.SetText(tr.localization.GetText(KeyDelete))
	tr.retryBtn.SetText(tr.localization.GetText(KeyRetry))
	tr.closeBtn.SetText(tr.localization.GetText(KeyClose))
	tr.folderBtn.SetText(IconFolder + " " + tr.localization.GetText(KeyOpenFolder))
	tr.updateButtons()
}

func (tr *TaskRow) createUI() {
	tr.titleLabel = widget.NewLabel("")
	tr.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	tr.titleLabel.Truncation = fyne.TextTruncateEllipsis

	tr.statusLabel = widget.NewLabel("")
	tr.statusLabel.Truncation = fyne.TextTruncateEllipsis
	tr.metricsLabel = widget.NewLabel("")
	tr.metricsLabel.TextStyle = fyne.TextStyle{Monospace: true}
	tr.percentLabel = widget.NewLabel("")
	tr.percentLabel.Alignment = fyne.TextAlignTrailing

	tr.progressBar = widget.NewProgressBar()
	tr.progressBar.TextFormatter = func() string { return "" }
	tr.progressInf = widget.NewProgressBarInfinite()
	tr.progressInf.Hide()

	call := func(action *func(string)) func() {
		return func() {
			if *action != nil {
				(*action)(tr.task.ID)
			}
		}
	}
	tr.pauseBtn = widget.NewButton("", call(&tr.actions.PauseToggle))
	tr.cancelBtn = widget.NewButton("", call(&tr.actions.SoftCancel))
	tr.resumeBtn = widget.NewButton("", call(&tr.actions.Resume))
	tr.deleteBtn = widget.NewButton("", call(&tr.actions.Delete))
	tr.deleteBtn.Importance = widget.DangerImportance
	tr.retryBtn = widget.NewButton("", call(&tr.actions.Retry))
	tr.closeBtn = widget.NewButton("", call(&tr.actions.Close))
	tr.folderBtn = widget.NewButton("", call(&tr.actions.OpenFolder))

	fixedWidth := func(w float32, obj fyne.CanvasObject) fyne.CanvasObject {
		spacer := canvas.NewRectangle(color.Transparent)
		spacer.SetMinSize(fyne.NewSize(w, obj.MinSize().Height))
		return container.NewStack(spacer, obj)
	}

	info := container.NewHBox(
		fixedWidth(StatusLabelWidth, tr.statusLabel),
		fixedWidth(MetricsLabelWidth, tr.metricsLabel),
		fixedWidth(PercentLabelWidth, tr.percentLabel),
	)
	actionRow := container.NewHBox(
		tr.pauseBtn, tr.cancelBtn, tr.resumeBtn, tr.retryBtn,
		tr.deleteBtn, tr.closeBtn, tr.folderBtn,
	)
	header := container.NewBorder(nil, nil, nil, actionRow, tr.titleLabel)
	progress := container.NewStack(tr.progressBar, tr.progressInf)

	tr.content = container.NewVBox(header, info, progress, widget.NewSeparator())
	tr.RefreshTexts()
}

func (tr *TaskRow) updateFromTask() {
	tr.titleLabel.SetText(cleanText(tr.task.GetDisplayTitle()))

	status := cleanText(tr.task.Status)
	if status == "" {
		status = DashPlaceholder
	}
	switch tr.task.State {
	case model.StateError:
		tr.statusLabel.Importance = widget.DangerImportance
		status = IconError + " " + status
	case model.StateDone:
		tr.statusLabel.Importance = widget.SuccessImportance
	case model.StateSoftCancelled:
		tr.statusLabel.Importance = widget.WarningImportance
		status = IconPause + " " + status
	case model.StatePaused:
		tr.statusLabel.Importance = widget.MediumImportance
		status = IconPause + " " + status
	case model.StateCancelled, model.StateDeleting:
		tr.statusLabel.Importance = widget.MediumImportance
		status = IconStop + " " + status
	case model.StatePending:
		tr.statusLabel.Importance = widget.MediumImportance
		status = IconWait + " " + status
	default:
		tr.statusLabel.Importance = widget.HighImportance
	}
	tr.statusLabel.SetText(status)

	tr.metricsLabel.SetText(metricsText(tr.task))
	tr.percentLabel.SetText(percentText(tr.task))

	if tr.task.Indeterminate && tr.mode == RowNormal && tr.task.State != model.StatePaused {
		tr.progressBar.Hide()
		tr.progressInf.Show()
		tr.progressInf.Start()
	} else {
		tr.progressInf.Stop()
		tr.progressInf.Hide()
		tr.progressBar.Show()
		tr.progressBar.SetValue(tr.task.Progress)
	}
}

func (tr *TaskRow) updateButtons() {
	hideAll := []*widget.Button{tr.pauseBtn, tr.cancelBtn, tr.resumeBtn, tr.deleteBtn, tr.retryBtn, tr.closeBtn, tr.folderBtn}
	for _, b := range hideAll {
		b.Hide()
		b.Enable()
	}

	switch tr.mode {
	case RowNormal:
		if tr.task.State == model.StatePaused {
			tr.pauseBtn.SetText(IconPlay + " " + tr.localization.GetText(KeyContinue))
		} else {
			tr.pauseBtn.SetText(IconPause + " " + tr.localization.GetText(KeyPause))
		}
		tr.pauseBtn.Show()
		tr.cancelBtn.Show()
	case RowSoftCancelled:
		tr.resumeBtn.Show()
		tr.deleteBtn.Show()
	case RowDone:
		tr.closeBtn.Show()
		tr.folderBtn.Show()
	case RowFailed:
		tr.retryBtn.Show()
		tr.deleteBtn.Show()
		tr.closeBtn.Show()
	case RowDisabled:
		tr.deleteBtn.Show()
		tr.deleteBtn.Disable()
	}
}

// CreateRenderer creates the widget renderer
func (tr *TaskRow) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(tr.content)
}

// MinSize keeps rows readable in narrow windows
func (tr *TaskRow) MinSize() fyne.Size {
	min := tr.BaseWidget.MinSize()
	if min.Width < RowMinWidth {
		min.Width = RowMinWidth
	}
	if min.Height < RowMinHeight {
		min.Height = RowMinHeight
	}
	return min
}

// metricsText joins quality, speed, ETA and total, skipping placeholders
func metricsText(task model.DownloadTask) string {
	var parts []string
	for _, v := range []string{task.Quality, task.Speed, task.ETA, task.Total} {
		if v != "" && v != "-" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, MiddleDotSeparator)
}

func percentText(task model.DownloadTask) string {
	if task.Percent == "-" {
		return ""
	}
	return task.Percent
}

// cleanText flattens control whitespace that breaks single-line labels
func cleanText(s string) string {
	s = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(s)
	return strings.TrimSpace(s)
}

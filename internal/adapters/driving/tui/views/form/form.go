// Package form provides the prompt optimisation form for the TUI.
package form

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/custodia-labs/grompt/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/grompt/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/grompt/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/grompt/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/grompt/internal/core/domain"
	"github.com/custodia-labs/grompt/internal/core/ports/driving"
)

// Field identifies a form field.
type Field int

const (
	FieldCredential Field = iota
	FieldPrompt
	FieldModel
	FieldTemperature
	FieldMaxTokens
	fieldCount
)

// String returns the field label.
func (f Field) String() string {
	switch f {
	case FieldCredential:
		return "API Key"
	case FieldPrompt:
		return "Prompt"
	case FieldModel:
		return "Model"
	case FieldTemperature:
		return "Temperature"
	case FieldMaxTokens:
		return "Max Tokens"
	default:
		return "unknown"
	}
}

const (
	promptWarning    = "Please enter a prompt to optimize."
	maxTokensWarning = "Max tokens must be a whole number between %d and %d."
	credentialHint   = "Enter your API key in the API Key field."
	temperatureSteps = 10
)

// View is the prompt optimisation form. It owns the field state for the
// lifetime of the program; the credential stays in memory only.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusbar *status.Bar
	spinner   spinner.Model

	credential textinput.Model
	prompt     textarea.Model
	maxTokens  textinput.Model

	service  driving.RephraseService
	provider domain.Provider
	ctx      context.Context

	models      []domain.Model
	modelIndex  int
	temperature int // tenths

	// configuredTemperature is sent as-is until the user moves the slider,
	// so a default such as 0.55 is not rounded.
	configuredTemperature float64
	temperatureTouched    bool

	focus   Field
	loading bool
	result  string
	warning string
	err     error

	width  int
	height int
	ready  bool
}

// NewView creates a new form view. Defaults come from the service;
// credential prefills the masked key field and may be empty.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	service driving.RephraseService,
	provider domain.Provider,
	credential string,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:    s,
		keymap:    km,
		statusbar: status.NewBar(s, km),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		service:   service,
		provider:  provider,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}

	v.credential = textinput.New()
	v.credential.Placeholder = fmt.Sprintf("%s API key", provider.Label())
	v.credential.EchoMode = textinput.EchoPassword
	v.credential.EchoCharacter = '•'
	v.credential.Width = 50
	v.credential.SetValue(credential)

	v.prompt = textarea.New()
	v.prompt.Placeholder = "Describe what you want the model to do..."
	v.prompt.ShowLineNumbers = false
	v.prompt.CharLimit = 0
	v.prompt.SetWidth(60)
	v.prompt.SetHeight(5)

	v.maxTokens = textinput.New()
	v.maxTokens.CharLimit = len(strconv.Itoa(domain.MaxMaxTokens))
	v.maxTokens.Width = 8

	defaults := domain.Defaults{Model: domain.ModelLlama3Groq70BToolUse, Temperature: 0.5, MaxTokens: 1024}
	if service != nil {
		defaults = service.Defaults()
		v.models = service.Models()
	}
	v.applyDefaults(defaults)

	// Start where input is still missing.
	if credential == "" {
		v.setFocus(FieldCredential)
	} else {
		v.setFocus(FieldPrompt)
	}

	return v
}

func (v *View) applyDefaults(d domain.Defaults) {
	_, idx, found := lo.FindIndexOf(v.models, func(m domain.Model) bool {
		return m.ID == d.Model
	})
	if !found {
		v.models = append([]domain.Model{{ID: d.Model, Name: d.Model}}, v.models...)
		idx = 0
	}
	v.modelIndex = idx
	v.temperature = int(math.Round(d.Temperature * temperatureSteps))
	v.configuredTemperature = d.Temperature
	v.maxTokens.SetValue(strconv.Itoa(d.MaxTokens))
	v.statusbar.SetModel(d.Model)
}

// WithContext sets the context for rephrase calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the form.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !v.loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.RephraseCompleted:
		v.handleRephraseCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.loading = false
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		return v, nil
	}

	return v.updateFocused(msg)
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	// Fields are frozen while a call is in flight.
	if v.loading {
		return v, nil
	}

	switch {
	case keymap.Matches(keyStr, v.keymap.Submit):
		return v.submit()
	case keymap.Matches(keyStr, v.keymap.Next):
		return v, v.setFocus((v.focus + 1) % fieldCount)
	case keymap.Matches(keyStr, v.keymap.Prev):
		return v, v.setFocus((v.focus + fieldCount - 1) % fieldCount)
	}

	switch v.focus {
	case FieldModel:
		v.adjustModel(keyStr)
		return v, nil
	case FieldTemperature:
		v.adjustTemperature(keyStr)
		return v, nil
	case FieldCredential, FieldMaxTokens:
		// Enter on a single-line field submits; the prompt keeps it for newlines.
		if msg.Type == tea.KeyEnter {
			return v.submit()
		}
	case FieldPrompt, fieldCount:
	}

	return v.updateFocused(msg)
}

func (v *View) updateFocused(msg tea.Msg) (*View, tea.Cmd) {
	var cmd tea.Cmd
	switch v.focus {
	case FieldCredential:
		v.credential, cmd = v.credential.Update(msg)
	case FieldPrompt:
		v.prompt, cmd = v.prompt.Update(msg)
	case FieldMaxTokens:
		if km, ok := msg.(tea.KeyMsg); ok && km.Type == tea.KeyRunes && !isDigits(km.Runes) {
			return v, nil
		}
		v.maxTokens, cmd = v.maxTokens.Update(msg)
	case FieldModel, FieldTemperature, fieldCount:
	}
	return v, cmd
}

func (v *View) adjustModel(keyStr string) {
	if len(v.models) == 0 {
		return
	}
	switch {
	case keymap.Matches(keyStr, v.keymap.Increase):
		v.modelIndex = (v.modelIndex + 1) % len(v.models)
	case keymap.Matches(keyStr, v.keymap.Decrease):
		v.modelIndex = (v.modelIndex + len(v.models) - 1) % len(v.models)
	default:
		return
	}
	v.statusbar.SetModel(v.Model())
}

func (v *View) adjustTemperature(keyStr string) {
	switch {
	case keymap.Matches(keyStr, v.keymap.Increase):
		v.temperature = min(v.temperature+1, int(domain.MaxTemperature*temperatureSteps))
		v.temperatureTouched = true
	case keymap.Matches(keyStr, v.keymap.Decrease):
		v.temperature = max(v.temperature-1, int(domain.MinTemperature*temperatureSteps))
		v.temperatureTouched = true
	}
}

// setFocus moves focus to f and blurs the text fields that lost it.
func (v *View) setFocus(f Field) tea.Cmd {
	v.focus = f
	v.credential.Blur()
	v.prompt.Blur()
	v.maxTokens.Blur()

	switch f {
	case FieldCredential:
		return v.credential.Focus()
	case FieldPrompt:
		return v.prompt.Focus()
	case FieldMaxTokens:
		return v.maxTokens.Focus()
	case FieldModel, FieldTemperature, fieldCount:
	}
	return nil
}

// submit validates the form and starts the rephrase call.
func (v *View) submit() (*View, tea.Cmd) {
	v.warning = ""

	if strings.TrimSpace(v.credential.Value()) == "" {
		return v.warn(fmt.Sprintf("Please enter your %s API Key to use the app.",
			strings.ToUpper(v.provider.Label())), FieldCredential)
	}
	if strings.TrimSpace(v.prompt.Value()) == "" {
		return v.warn(promptWarning, FieldPrompt)
	}
	maxTokens, err := strconv.Atoi(strings.TrimSpace(v.maxTokens.Value()))
	if err != nil || maxTokens < domain.MinMaxTokens || maxTokens > domain.MaxMaxTokens {
		return v.warn(fmt.Sprintf(maxTokensWarning, domain.MinMaxTokens, domain.MaxMaxTokens), FieldMaxTokens)
	}

	req := domain.RephraseRequest{
		Text:        v.prompt.Value(),
		Model:       v.Model(),
		Temperature: v.Temperature(),
		MaxTokens:   maxTokens,
		Credential:  strings.TrimSpace(v.credential.Value()),
	}

	v.loading = true
	v.err = nil
	v.result = ""
	v.statusbar.SetState(status.StateRephrasing)
	return v, tea.Batch(v.spinner.Tick, v.performRephrase(req))
}

func (v *View) warn(message string, field Field) (*View, tea.Cmd) {
	v.warning = message
	v.statusbar.SetState(status.StateWarning)
	v.statusbar.SetMessage(message)
	return v, v.setFocus(field)
}

// performRephrase runs the call off the update loop.
func (v *View) performRephrase(req domain.RephraseRequest) tea.Cmd {
	service := v.service
	ctx := v.ctx
	return func() tea.Msg {
		if service == nil {
			return messages.ErrorOccurred{Err: ErrNoRephraseService}
		}
		result, err := service.Rephrase(ctx, req)
		return messages.RephraseCompleted{Result: result, Err: err}
	}
}

// handleRephraseCompleted records the outcome. Failures stay on the form.
func (v *View) handleRephraseCompleted(msg messages.RephraseCompleted) {
	v.loading = false
	if msg.Err != nil {
		v.err = msg.Err
		v.result = ""
		v.statusbar.SetState(status.StateError)
		return
	}

	v.err = nil
	v.result = msg.Result
	v.statusbar.SetState(status.StateDone)
}

// ErrorText renders the last failure the way the form displays it.
func (v *View) ErrorText() string {
	if v.err == nil {
		return ""
	}
	if domain.Classify(v.err) == nil && !errors.Is(v.err, domain.ErrInvalidInput) {
		return "An unexpected error occurred: " + v.err.Error()
	}
	return "Error: " + domain.Describe(v.err, v.provider, credentialHint)
}

// View renders the form.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 20)
	sections = append(sections,
		v.styles.Title.Render("Grompt - Prompt Optimizer"),
		v.styles.Muted.Render("Turn a rough request into a structured, effective prompt."),
		"",
		v.renderField(FieldCredential, v.credential.View()),
		v.renderField(FieldPrompt, v.prompt.View()),
		v.renderField(FieldModel, v.renderModel()),
		v.renderField(FieldTemperature, v.renderTemperature()),
		v.renderField(FieldMaxTokens, v.maxTokens.View()),
		"",
	)

	switch {
	case v.loading:
		sections = append(sections, v.spinner.View()+" Optimizing prompt...")
	case v.warning != "":
		sections = append(sections, v.styles.Warning.Render(v.warning))
	case v.err != nil:
		sections = append(sections, v.styles.Error.Render(v.ErrorText()))
	case v.result != "":
		sections = append(sections,
			v.styles.Success.Render("Optimized Prompt:"),
			v.styles.Result.Width(max(v.width-4, 20)).Render(v.result),
		)
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderField(f Field, body string) string {
	label := v.styles.Label.Render(f.String())
	box := v.styles.InputField
	if v.focus == f {
		label = v.styles.FocusedLabel.Render("> " + f.String())
		box = v.styles.FocusedField
	}
	return lipgloss.JoinVertical(lipgloss.Left, label, box.Render(body))
}

func (v *View) renderModel() string {
	if len(v.models) == 0 {
		return v.styles.Muted.Render("(no models)")
	}
	m := v.models[v.modelIndex]
	return fmt.Sprintf("‹ %s ›  %s", m.ID, v.styles.Muted.Render(m.Name))
}

func (v *View) renderTemperature() string {
	filled := v.temperature
	bar := strings.Repeat("█", filled) + strings.Repeat("░", temperatureSteps-filled)
	t := v.Temperature()
	if t*temperatureSteps != math.Round(t*temperatureSteps) {
		return fmt.Sprintf("%s %s", bar, strconv.FormatFloat(t, 'f', -1, 64))
	}
	return fmt.Sprintf("%s %.1f", bar, t)
}

func isDigits(runes []rune) bool {
	for _, r := range runes {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(runes) > 0
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	inner := max(width-6, 20)
	v.credential.Width = inner
	v.prompt.SetWidth(inner)
	v.statusbar.SetWidth(width)
}

// SetCredential replaces the key field value.
func (v *View) SetCredential(credential string) {
	v.credential.SetValue(credential)
}

// SetPrompt replaces the prompt field value.
func (v *View) SetPrompt(prompt string) {
	v.prompt.SetValue(prompt)
}

// SetMaxTokens replaces the max tokens field value.
func (v *View) SetMaxTokens(value string) {
	v.maxTokens.SetValue(value)
}

// Focus returns the focused field.
func (v *View) Focus() Field {
	return v.focus
}

// Prompt returns the prompt field value.
func (v *View) Prompt() string {
	return v.prompt.Value()
}

// Model returns the selected model identifier.
func (v *View) Model() string {
	if len(v.models) == 0 {
		return ""
	}
	return v.models[v.modelIndex].ID
}

// Temperature returns the selected temperature. It is the configured
// default until the slider is moved.
func (v *View) Temperature() float64 {
	if !v.temperatureTouched {
		return v.configuredTemperature
	}
	return float64(v.temperature) / temperatureSteps
}

// MaxTokens returns the raw max tokens field value.
func (v *View) MaxTokens() string {
	return v.maxTokens.Value()
}

// Loading reports whether a rephrase call is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Result returns the last optimised prompt.
func (v *View) Result() string {
	return v.result
}

// Warning returns the current validation warning.
func (v *View) Warning() string {
	return v.warning
}

// Err returns the last rephrase error.
func (v *View) Err() error {
	return v.err
}

// StatusBar returns the status bar component.
func (v *View) StatusBar() *status.Bar {
	return v.statusbar
}

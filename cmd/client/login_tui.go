package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/syncstash/syncstash/internal/utils"
)

// The login flow has two screens: gateway URL first, then a token for
// that gateway.
type viewState int

const (
	serverView viewState = iota
	tokenView
)

const (
	txtServerPlaceholder = "https://stash.example.com"
	txtTokenPlaceholder  = "••••••••"
	txtServerPrompt      = "Enter the gateway URL"
	txtTokenPrompt       = "Paste an access token for %s"
	txtTokenInfo         = "Ask the gateway operator, or run 'stashd token new' on the server."
	txtPinging           = "Contacting gateway..."
	txtVerifying         = "Verifying credentials..."
	txtInvalidURL        = "Invalid URL"
	txtInvalidToken      = "Token cannot be empty"
	txtHelp              = "Press 'Enter' to submit. 'Esc' to go back/quit. 'Ctrl+C' to quit."
)

var (
	focusedStyle     = green
	helpStyle        = gray
	errorTextStyle   = red
	errorHeaderStyle = red.Bold(true)
	spinnerStyle     = cyan
	placeholderStyle = gray
	titleStyle       = cyan.Bold(true)
)

type LoginTUIOpts struct {
	ServerURL       string // prefills the gateway URL input
	Folder          string
	CredentialsPath string
	// ServerSubmitHandler checks the gateway is answering before a token is
	// asked for.
	ServerSubmitHandler func(serverURL string) error
	// TokenSubmitHandler verifies the pair against the gateway.
	TokenSubmitHandler func(serverURL, token string) error
	ServerValidator    func(serverURL string) bool
	TokenValidator     func(token string) bool
}

type loginModel struct {
	opts *LoginTUIOpts

	serverInput textinput.Model
	tokenInput  textinput.Model
	spinner     spinner.Model

	currentView viewState

	isLoading    bool
	errorMessage string
	message      string // shown next to the spinner

	submittedServer string // carried from the first screen into the token callback
}

type serverProcessedMsg struct{ err error }
type tokenProcessedMsg struct{ err error }

func newLoginModel(opts *LoginTUIOpts) loginModel {
	server := textinput.New()
	server.Placeholder = txtServerPlaceholder
	server.SetValue(opts.ServerURL)
	server.Focus()
	server.CharLimit = 128
	server.Width = 64
	server.PromptStyle = focusedStyle
	server.TextStyle = focusedStyle
	server.PlaceholderStyle = placeholderStyle

	token := textinput.New()
	token.Placeholder = txtTokenPlaceholder
	token.EchoMode = textinput.EchoPassword
	token.EchoCharacter = '•'
	token.CharLimit = 512
	token.Width = 64
	token.PromptStyle = focusedStyle
	token.TextStyle = focusedStyle
	token.PlaceholderStyle = placeholderStyle

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return loginModel{
		opts:        opts,
		currentView: serverView,
		serverInput: server,
		tokenInput:  token,
		spinner:     s,
	}
}

func (m loginModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m loginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit

		case tea.KeyEsc:
			return m.goBack()

		case tea.KeyEnter:
			if m.isLoading {
				return m, nil
			}
			if m.currentView == serverView {
				return m.submitServer()
			}
			return m.submitToken()
		}
		return m.updateInput(msg)

	case serverProcessedMsg:
		return m.serverResult(msg)

	case tokenProcessedMsg:
		return m.tokenResult(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// updateInput forwards keystrokes to whichever field has focus. Typing
// clears a stale error.
func (m loginModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.serverInput.Focused():
		m.errorMessage = ""
		m.serverInput, cmd = m.serverInput.Update(msg)
	case m.tokenInput.Focused():
		m.errorMessage = ""
		m.tokenInput, cmd = m.tokenInput.Update(msg)
	}
	return m, cmd
}

// goBack returns from the token screen to the URL screen, or quits when
// already there.
func (m loginModel) goBack() (tea.Model, tea.Cmd) {
	if m.currentView == tokenView {
		m.currentView = serverView
		m.tokenInput.Blur()
		m.serverInput.Focus()
		m.errorMessage = ""
		return m, textinput.Blink
	}
	return m, tea.Quit
}

func (m loginModel) submitServer() (tea.Model, tea.Cmd) {
	serverVal := strings.TrimSpace(m.serverInput.Value())
	if !m.opts.ServerValidator(serverVal) {
		m.errorMessage = txtInvalidURL
		return m, nil
	}

	m.errorMessage = ""
	m.isLoading = true
	m.message = txtPinging
	m.submittedServer = serverVal
	m.serverInput.Blur()

	return m, func() tea.Msg {
		return serverProcessedMsg{err: m.opts.ServerSubmitHandler(m.submittedServer)}
	}
}

func (m loginModel) submitToken() (tea.Model, tea.Cmd) {
	tokenVal := strings.TrimSpace(m.tokenInput.Value())
	if !m.opts.TokenValidator(tokenVal) {
		m.errorMessage = txtInvalidToken
		return m, nil
	}

	m.errorMessage = ""
	m.isLoading = true
	m.message = txtVerifying
	m.tokenInput.Blur()

	return m, func() tea.Msg {
		return tokenProcessedMsg{err: m.opts.TokenSubmitHandler(m.submittedServer, tokenVal)}
	}
}

func (m loginModel) serverResult(msg serverProcessedMsg) (tea.Model, tea.Cmd) {
	m.isLoading = false

	if msg.err != nil {
		m.errorMessage = fmt.Sprintf("%s %s", errorHeaderStyle.Render("ERROR:"), msg.err.Error())
		m.serverInput.Focus()
		return m, textinput.Blink
	}

	// The gateway answered, move on to the token screen.
	m.currentView = tokenView
	m.message = ""
	m.errorMessage = ""
	m.tokenInput.Focus()

	return m, textinput.Blink
}

func (m loginModel) tokenResult(msg tokenProcessedMsg) (tea.Model, tea.Cmd) {
	m.isLoading = false

	if msg.err != nil {
		m.errorMessage = fmt.Sprintf("%s %s", errorHeaderStyle.Render("ERROR:"), msg.err.Error())
		m.tokenInput.Focus()
		return m, textinput.Blink
	}

	// Verified. The caller reads the credentials back out of its handler.
	return m, tea.Quit
}

func (m loginModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(utils.SyncStashArt))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s%s\n", gray.Render("Folder  "), green.Render(m.opts.Folder))
	fmt.Fprintf(&b, "%s%s\n", gray.Render("Config  "), green.Render(m.opts.CredentialsPath))
	b.WriteString("\n")

	switch m.currentView {
	case serverView:
		b.WriteString(txtServerPrompt)
		b.WriteString("\n\n")
		b.WriteString(m.serverInput.View())
	case tokenView:
		fmt.Fprintf(&b, txtTokenPrompt+"\n", green.Render(m.submittedServer))
		b.WriteString(helpStyle.Render(txtTokenInfo))
		b.WriteString("\n\n")
		b.WriteString(m.tokenInput.View())
	}

	if m.isLoading {
		fmt.Fprintf(&b, "\n\n%s %s", m.spinner.View(), m.message)
	}
	if m.errorMessage != "" {
		b.WriteString("\n\n")
		b.WriteString(errorTextStyle.Render(m.errorMessage))
	}

	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(txtHelp))
	b.WriteString("\n")

	return b.String()
}

// RunLoginTUI drives the interactive login. A nil return means the
// token handler ran successfully for the submitted pair.
func RunLoginTUI(opts LoginTUIOpts) error {
	model, err := tea.NewProgram(newLoginModel(&opts), tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("run login ui: %w", err)
	}

	if fm, ok := model.(loginModel); ok {
		if fm.errorMessage != "" {
			return fmt.Errorf("login aborted: %s", fm.errorMessage)
		}
		// Quitting from the first screen means the user backed out.
		if fm.currentView == serverView {
			return fmt.Errorf("login cancelled")
		}
	}

	return nil
}

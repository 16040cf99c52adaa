package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nordwg/nordgen/pkg/gen"
	"github.com/nordwg/nordgen/pkg/logging"
	"github.com/nordwg/nordgen/pkg/nordapi"
	"github.com/nordwg/nordgen/pkg/prefs"
	"github.com/nordwg/nordgen/pkg/server"
)

func main() {
	// Keep slog quiet underneath the TUI unless asked for more.
	_, rc, err := prefs.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}
	if rc.LogLevel == "INFO" {
		rc.LogLevel = "ERROR"
	}
	logging.Setup(rc.LogLevel)

	m := newModel(rc)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "tui error:", err)
		os.Exit(1)
	}
}

// ---- stages ----

type stage int

const (
	stageToken stage = iota
	stageDNS
	stageKeepalive
	stageEndpoint
	stageFetching
	stageTypePick
	stageRegionPick
	stageGenerating
	stageDone
	stageFailed
)

// ---- messages ----

type fetchedMsg struct {
	snap *nordapi.Snapshot
	err  error
}

type genDoneMsg struct {
	res *gen.Result
	err error
}

type tickMsg time.Time

// ---- list items ----

type pickItem struct {
	id    string
	title string
	desc  string
}

func (i pickItem) Title() string       { return i.title }
func (i pickItem) Description() string { return i.desc }
func (i pickItem) FilterValue() string { return i.title }

// ---- styles ----

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

// ---- model ----

type model struct {
	stage stage
	rc    prefs.RunConfig
	prefs prefs.Preferences

	input    textinput.Model
	spin     spinner.Model
	typeList list.Model
	regList  list.Model
	bar      progress.Model

	snap     *nordapi.Snapshot
	metadata *server.Metadata

	written *atomic.Int64
	planned *atomic.Int64

	result *gen.Result
	errMsg string
	width  int
}

func newModel(rc prefs.RunConfig) *model {
	ti := textinput.New()
	ti.Placeholder = "NordVPN access token"
	ti.EchoMode = textinput.EchoPassword
	ti.CharLimit = 128
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &model{
		stage:   stageToken,
		rc:      rc,
		prefs:   prefs.Default(),
		input:   ti,
		spin:    sp,
		bar:     progress.New(progress.WithDefaultGradient()),
		written: &atomic.Int64{},
		planned: &atomic.Int64{},
	}
}

func (m *model) Init() tea.Cmd {
	if m.rc.Token != "" {
		// Token already provided via environment, skip straight to the
		// next prompt.
		m.stage = stageDNS
		m.input = dnsInput()
	}
	return textinput.Blink
}

func dnsInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = prefs.DefaultDNS
	ti.CharLimit = 15
	ti.Focus()
	return ti
}

func keepaliveInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = strconv.Itoa(prefs.DefaultKeepalive)
	ti.CharLimit = 3
	ti.Focus()
	return ti
}

// ---- commands ----

func (m *model) fetchCmd() tea.Cmd {
	token := m.rc.Token
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		snap, err := nordapi.New().FetchAll(ctx, token)
		return fetchedMsg{snap: snap, err: err}
	}
}

func (m *model) generateCmd() tea.Cmd {
	snap := m.snap
	p := m.prefs
	rc := m.rc
	written := m.written
	planned := m.planned
	return func() tea.Msg {
		res, err := gen.Generate(snap.Servers, snap.User, snap.PrivateKey, p, gen.Options{
			OutputDir:        rc.OutputDir,
			WriteConcurrency: rc.WriteConcurrency,
			OnStart: func(total, best int) {
				planned.Store(int64(total + best))
			},
			OnWrite: func() { written.Add(1) },
		})
		return genDoneMsg{res: res, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// ---- update ----

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if m.typeList.Items() != nil {
			m.typeList.SetSize(msg.Width-4, 14)
		}
		if m.regList.Items() != nil {
			m.regList.SetSize(msg.Width-4, 14)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case fetchedMsg:
		if msg.err != nil {
			m.stage = stageFailed
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.snap = msg.snap
		m.metadata = server.BuildMetadata(msg.snap.Servers)
		m.typeList = newPickList("Pick a server type", typeItems(m.metadata), m.width)
		m.stage = stageTypePick
		return m, nil

	case genDoneMsg:
		if msg.err != nil {
			m.stage = stageFailed
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.result = msg.res
		m.stage = stageDone
		return m, nil

	case tickMsg:
		if m.stage == stageGenerating {
			return m, tick()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m.updateActiveComponent(msg)
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.stage {
	case stageToken:
		if msg.Type == tea.KeyEnter {
			token := strings.TrimSpace(m.input.Value())
			if token == "" {
				return m, nil
			}
			m.rc.Token = token
			m.stage = stageDNS
			m.input = dnsInput()
			return m, textinput.Blink
		}

	case stageDNS:
		if msg.Type == tea.KeyEnter {
			if v := strings.TrimSpace(m.input.Value()); v != "" {
				m.prefs.DNS = v
			}
			m.stage = stageKeepalive
			m.input = keepaliveInput()
			return m, textinput.Blink
		}

	case stageKeepalive:
		if msg.Type == tea.KeyEnter {
			if v := strings.TrimSpace(m.input.Value()); v != "" {
				if n, err := strconv.Atoi(v); err == nil {
					m.prefs.Keepalive = n
				}
			}
			// Out-of-range values fall back silently via Normalized.
			m.prefs = m.prefs.Normalized()
			m.stage = stageEndpoint
			return m, nil
		}

	case stageEndpoint:
		switch msg.String() {
		case "y", "Y":
			m.prefs.UseIPEndpoint = true
		case "n", "N", "enter":
			m.prefs.UseIPEndpoint = false
		default:
			return m, nil
		}
		m.stage = stageFetching
		return m, tea.Batch(m.spin.Tick, m.fetchCmd())

	case stageTypePick:
		if msg.Type == tea.KeyEnter {
			if item, ok := m.typeList.SelectedItem().(pickItem); ok {
				if item.id != server.AllTypesID {
					m.prefs.ServerTypes = []string{item.id}
				}
			}
			// Rebuild metadata over the narrowed set so region choices
			// are never empty.
			narrowed := server.FilterRecords(m.snap.Servers, server.NewFilter(m.prefs))
			m.metadata = server.BuildMetadata(narrowed)
			m.regList = newPickList("Pick a region", regionItems(m.metadata), m.width)
			m.stage = stageRegionPick
			return m, nil
		}

	case stageRegionPick:
		if msg.Type == tea.KeyEnter {
			if item, ok := m.regList.SelectedItem().(pickItem); ok {
				if item.id != "all" {
					m.prefs.Regions = []string{item.id}
				}
			}
			m.stage = stageGenerating
			return m, tea.Batch(m.spin.Tick, tick(), m.generateCmd())
		}

	case stageDone, stageFailed:
		return m, tea.Quit
	}

	return m.updateActiveComponent(msg)
}

func (m *model) updateActiveComponent(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.stage {
	case stageToken, stageDNS, stageKeepalive:
		m.input, cmd = m.input.Update(msg)
	case stageTypePick:
		m.typeList, cmd = m.typeList.Update(msg)
	case stageRegionPick:
		m.regList, cmd = m.regList.Update(msg)
	}
	return m, cmd
}

func newPickList(title string, items []list.Item, width int) list.Model {
	if width == 0 {
		width = 72
	}
	l := list.New(items, list.NewDefaultDelegate(), width-4, 14)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	return l
}

func typeItems(md *server.Metadata) []list.Item {
	items := make([]list.Item, 0, len(md.Types))
	for _, t := range md.Types {
		items = append(items, pickItem{
			id:    t.ID,
			title: t.DisplayName,
			desc:  fmt.Sprintf("%d servers", t.Count),
		})
	}
	return items
}

func regionItems(md *server.Metadata) []list.Item {
	items := make([]list.Item, 0, len(md.Regions)+1)
	items = append(items, pickItem{id: "all", title: "All", desc: "no region filter"})
	for _, r := range md.Regions {
		items = append(items, pickItem{id: r.ID, title: r.DisplayName, desc: r.ID})
	}
	return items
}

// ---- view ----

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("nordgen"))
	b.WriteString(faintStyle.Render("  NordVPN WireGuard config generator"))
	b.WriteString("\n\n")

	switch m.stage {
	case stageToken:
		b.WriteString(promptStyle.Render("Access token") + "\n")
		b.WriteString(m.input.View() + "\n")
		b.WriteString(faintStyle.Render("enter to confirm, ctrl+c to quit"))

	case stageDNS:
		b.WriteString(promptStyle.Render("DNS server") + "\n")
		b.WriteString(m.input.View() + "\n")
		b.WriteString(faintStyle.Render("empty keeps the default " + prefs.DefaultDNS))

	case stageKeepalive:
		b.WriteString(promptStyle.Render("PersistentKeepalive (15-120)") + "\n")
		b.WriteString(m.input.View() + "\n")
		b.WriteString(faintStyle.Render("empty keeps the default 25"))

	case stageEndpoint:
		b.WriteString(promptStyle.Render("Use server IP instead of hostname as endpoint? [y/N]"))

	case stageFetching:
		b.WriteString(m.spin.View())
		b.WriteString(" fetching credentials, servers and geolocation...")

	case stageTypePick:
		b.WriteString(m.typeList.View())

	case stageRegionPick:
		b.WriteString(m.regList.View())

	case stageGenerating:
		b.WriteString(m.spin.View())
		b.WriteString(" writing configuration files\n\n")
		total := m.totalPlanned()
		if total > 0 {
			pct := float64(m.written.Load()) / float64(total)
			if pct > 1 {
				pct = 1
			}
			b.WriteString(m.bar.ViewAs(pct))
			b.WriteString(fmt.Sprintf("\n%d/%d", m.written.Load(), total))
		}

	case stageDone:
		st := m.result.Stats
		b.WriteString(okStyle.Render("Done.") + "\n\n")
		b.WriteString(fmt.Sprintf("  output         %s\n", m.result.OutputDir))
		b.WriteString(fmt.Sprintf("  configs        %d\n", st.TotalConfigs))
		b.WriteString(fmt.Sprintf("  best configs   %d\n", st.BestConfigs))
		b.WriteString(fmt.Sprintf("  rejected       %d\n", st.RejectedCount))
		if st.Duplicates > 0 {
			b.WriteString(fmt.Sprintf("  duplicates     %d\n", st.Duplicates))
		}
		if st.WriteFailures > 0 {
			b.WriteString(errStyle.Render(fmt.Sprintf("  write failures %d\n", st.WriteFailures)))
		}
		b.WriteString("\n" + faintStyle.Render("press any key to exit"))

	case stageFailed:
		b.WriteString(errStyle.Render("Failed: "+m.errMsg) + "\n")
		b.WriteString(faintStyle.Render("press any key to exit"))
	}

	b.WriteString("\n")
	return b.String()
}

// totalPlanned is the write total reported by the pipeline once it has
// resolved how many files the run produces; zero until then.
func (m *model) totalPlanned() int64 {
	return m.planned.Load()
}

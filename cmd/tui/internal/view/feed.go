package view

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/squareupapp/squareup-server/internal/contribution"
	"github.com/squareupapp/squareup-server/internal/user"
)

const feedPageSize = 50

// FeedModel shows the most recent contributions across all groups.
type FeedModel struct {
	CommonModel
	contributionService *contribution.Service
	userService         *user.Service

	table   table.Model
	page    []*contribution.Contribution
	names   map[uuid.UUID]string
	loading bool
	err     error
}

func NewFeedModel(contribSvc *contribution.Service, userSvc *user.Service) FeedModel {
	columns := []table.Column{
		{Title: "Created", Width: 12},
		{Title: "Sender", Width: 18},
		{Title: "Description", Width: 36},
		{Title: "Total", Width: 10},
		{Title: "Receivers", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return FeedModel{
		contributionService: contribSvc,
		userService:         userSvc,
		table:               t,
		names:               make(map[uuid.UUID]string),
	}
}

func (m FeedModel) Title() string     { return "Activity Feed" }
func (m FeedModel) ShortHelp() string { return "Esc: back | r: refresh" }

type loadFeedMsg struct {
	page  []*contribution.Contribution
	names map[uuid.UUID]string
	err   error
}

func (m FeedModel) loadFeedCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		page, err := m.contributionService.Recent(ctx, feedPageSize)
		if err != nil {
			return loadFeedMsg{err: err}
		}

		var ids []uuid.UUID
		seen := make(map[uuid.UUID]struct{})
		for _, c := range page {
			if _, ok := seen[c.SenderID]; !ok {
				seen[c.SenderID] = struct{}{}
				ids = append(ids, c.SenderID)
			}
		}

		summaries, err := m.userService.Summaries(ctx, ids)
		if err != nil {
			return loadFeedMsg{err: err}
		}

		names := make(map[uuid.UUID]string, len(summaries))
		for _, s := range summaries {
			names[s.ID] = s.Username
		}

		return loadFeedMsg{page: page, names: names}
	}
}

func (m FeedModel) Init() tea.Cmd {
	m.loading = true
	return m.loadFeedCmd()
}

func (m FeedModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadFeedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.page = msg.page
		m.names = msg.names
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadFeedCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *FeedModel) refreshTable() {
	rows := make([]table.Row, len(m.page))
	for i, c := range m.page {
		sender := m.names[c.SenderID]
		if sender == "" {
			sender = ShortID(c.SenderID.String())
		}

		rows[i] = table.Row{
			FormatDate(c.CreatedAt),
			sender,
			c.Description,
			c.TotalAmount.String(),
			strconv.Itoa(len(c.ReceiverAmounts)),
		}
	}

	m.table.SetRows(rows)
}

func (m FeedModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nEsc: back", m.err)
	}

	if m.loading {
		return "Loading feed..."
	}

	return m.table.View() + "\n\n" + m.ShortHelp()
}

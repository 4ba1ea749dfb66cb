package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/squareupapp/squareup-server/internal/group"
	"github.com/squareupapp/squareup-server/internal/user"
)

type groupsState int

const (
	groupsStateBrowse groupsState = iota
	groupsStateDetail
)

// GroupsModel browses every group with its computed balances.
type GroupsModel struct {
	CommonModel
	groupService *group.Service
	userService  *user.Service

	state   groupsState
	table   table.Model
	views   []*group.View
	names   map[uuid.UUID]string
	loading bool
	err     error
}

func NewGroupsModel(groupSvc *group.Service, userSvc *user.Service) GroupsModel {
	columns := []table.Column{
		{Title: "Created", Width: 12},
		{Title: "Name", Width: 28},
		{Title: "Members", Width: 8},
		{Title: "Contribs", Width: 8},
		{Title: "Votes", Width: 8},
		{Title: "ID", Width: 10},
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

	return GroupsModel{
		groupService: groupSvc,
		userService:  userSvc,
		table:        t,
		names:        make(map[uuid.UUID]string),
	}
}

func (m GroupsModel) Title() string { return "Groups" }
func (m GroupsModel) ShortHelp() string {
	if m.state == groupsStateDetail {
		return "Esc: back to list"
	}

	return "Esc: back | Enter: balances | r: refresh"
}

type loadGroupsMsg struct {
	views []*group.View
	names map[uuid.UUID]string
	err   error
}

func (m GroupsModel) loadGroupsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		views, err := m.groupService.ListAll(ctx)
		if err != nil {
			return loadGroupsMsg{err: err}
		}

		var ids []uuid.UUID
		seen := make(map[uuid.UUID]struct{})
		for _, v := range views {
			for _, id := range v.Group.MemberIDs {
				if _, ok := seen[id]; !ok {
					seen[id] = struct{}{}
					ids = append(ids, id)
				}
			}
		}

		summaries, err := m.userService.Summaries(ctx, ids)
		if err != nil {
			return loadGroupsMsg{err: err}
		}

		names := make(map[uuid.UUID]string, len(summaries))
		for _, s := range summaries {
			names[s.ID] = s.Username
		}

		return loadGroupsMsg{views: views, names: names}
	}
}

func (m GroupsModel) Init() tea.Cmd {
	return m.loadGroupsCmd()
}

func (m GroupsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadGroupsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.views = msg.views
		m.names = msg.names
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case groupsStateBrowse:
			switch msg.String() {
			case "esc":
				return m, Back
			case "r":
				m.loading = true
				return m, m.loadGroupsCmd()
			case "enter":
				if idx := m.table.Cursor(); idx >= 0 && idx < len(m.views) {
					m.state = groupsStateDetail
				}

				return m, nil
			}
		case groupsStateDetail:
			if msg.String() == "esc" {
				m.state = groupsStateBrowse
				return m, nil
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *GroupsModel) refreshTable() {
	rows := make([]table.Row, len(m.views))
	for i, v := range m.views {
		rows[i] = table.Row{
			FormatDate(v.Group.CreatedAt),
			v.Group.Name,
			strconv.Itoa(len(v.Group.MemberIDs)),
			strconv.Itoa(len(v.Contributions)),
			fmt.Sprintf("%d/%d", len(v.Group.VotesToDelete), len(v.Group.MemberIDs)),
			ShortID(v.Group.ID.String()),
		}
	}

	m.table.SetRows(rows)
}

func (m GroupsModel) name(id uuid.UUID) string {
	if name, ok := m.names[id]; ok {
		return name
	}

	return ShortID(id.String())
}

func (m GroupsModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nEsc: back", m.err)
	}

	if m.loading {
		return "Loading groups..."
	}

	if m.state == groupsStateDetail {
		return m.detailView()
	}

	return m.table.View() + "\n\n" + m.ShortHelp()
}

func (m GroupsModel) detailView() string {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.views) {
		return "No group selected"
	}

	v := m.views[idx]

	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Render(v.Group.Name)
	fmt.Fprintf(&b, "%s  (created %s by %s)\n\n", title, FormatDate(v.Group.CreatedAt), m.name(v.Group.CreatedBy))

	b.WriteString("Net balances:\n")
	for _, id := range v.Group.MemberIDs {
		fmt.Fprintf(&b, "  %-20s %10s\n", m.name(id), v.Balances.Net[id])
	}

	if len(v.Balances.Debts) > 0 {
		b.WriteString("\nWho owes whom:\n")
		for debtor, owed := range v.Balances.Debts {
			for creditor, amount := range owed {
				fmt.Fprintf(&b, "  %s owes %s %s\n", m.name(debtor), m.name(creditor), amount)
			}
		}
	}

	if len(v.Group.VotesToDelete) > 0 {
		b.WriteString("\nVotes to delete:\n")
		for _, id := range v.Group.VotesToDelete {
			fmt.Fprintf(&b, "  %s\n", m.name(id))
		}
	}

	b.WriteString("\n" + m.ShortHelp())

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

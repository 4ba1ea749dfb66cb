package view

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/squareupapp/squareup-server/internal/group"
	"github.com/squareupapp/squareup-server/internal/user"
)

// CreateModel is the support flow for opening a group on behalf of users, for
// example when re-creating one deleted by accident.
type CreateModel struct {
	CommonModel
	groupService *group.Service
	userService  *user.Service

	form   *huh.Form
	status string
	done   bool

	// Form bindings
	formName    string
	formCreator string
	formMembers string
}

func NewCreateModel(groupSvc *group.Service, userSvc *user.Service) CreateModel {
	m := CreateModel{
		groupService: groupSvc,
		userService:  userSvc,
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Group name").
				Value(&m.formName),
			huh.NewInput().
				Title("Creator username").
				Value(&m.formCreator),
			huh.NewInput().
				Title("Member usernames (comma separated)").
				Value(&m.formMembers),
		),
	)

	return m
}

func (m CreateModel) Title() string     { return "Create Group" }
func (m CreateModel) ShortHelp() string { return "Navigate form | Esc: back" }

func (m CreateModel) Init() tea.Cmd {
	return m.form.Init()
}

type createGroupMsg struct {
	name string
	err  error
}

func (m CreateModel) createGroupCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		creator, err := m.resolveUsername(ctx, m.formCreator)
		if err != nil {
			return createGroupMsg{err: err}
		}

		var members []uuid.UUID
		for _, raw := range strings.Split(m.formMembers, ",") {
			username := strings.TrimSpace(raw)
			if username == "" {
				continue
			}

			id, err := m.resolveUsername(ctx, username)
			if err != nil {
				return createGroupMsg{err: err}
			}

			members = append(members, id)
		}

		g, err := m.groupService.Create(ctx, group.CreateParams{
			Name:      m.formName,
			CreatorID: creator,
			MemberIDs: members,
		})
		if err != nil {
			return createGroupMsg{err: err}
		}

		return createGroupMsg{name: g.Name}
	}
}

func (m CreateModel) resolveUsername(ctx context.Context, username string) (uuid.UUID, error) {
	summaries, err := m.userService.Search(ctx, username)
	if err != nil {
		return uuid.Nil, err
	}

	for _, s := range summaries {
		if strings.EqualFold(s.Username, username) {
			return s.ID, nil
		}
	}

	return uuid.Nil, fmt.Errorf("no user named %q", username)
}

func (m CreateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case createGroupMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Created group %q", msg.name)
		m.done = true

		return m, nil

	case tea.KeyMsg:
		if msg.String() == "esc" || (m.done && msg.String() == "enter") {
			return m, Back
		}
	}

	if m.done {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.done = true
		return m, m.createGroupCmd()
	}

	return m, cmd
}

func (m CreateModel) View() string {
	if m.status != "" {
		return m.status + "\n\nEsc: back"
	}

	return m.form.View() + "\n" + m.ShortHelp()
}

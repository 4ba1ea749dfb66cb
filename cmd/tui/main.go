package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/squareupapp/squareup-server/cmd/tui/internal/view"
	"github.com/squareupapp/squareup-server/internal/config"
	"github.com/squareupapp/squareup-server/internal/contribution"
	contributionStore "github.com/squareupapp/squareup-server/internal/contribution/store"
	"github.com/squareupapp/squareup-server/internal/database"
	"github.com/squareupapp/squareup-server/internal/friend"
	friendStore "github.com/squareupapp/squareup-server/internal/friend/store"
	"github.com/squareupapp/squareup-server/internal/group"
	groupStore "github.com/squareupapp/squareup-server/internal/group/store"
	"github.com/squareupapp/squareup-server/internal/user"
	userStore "github.com/squareupapp/squareup-server/internal/user/store"
)

type model struct {
	groupService        *group.Service
	contributionService *contribution.Service
	userService         *user.Service

	currentView View

	groupsView view.GroupsModel
	feedView   view.FeedModel
	createView view.CreateModel
}

type View int

const (
	ViewMenu   View = 0
	ViewGroups View = 1
	ViewFeed   View = 2
	ViewCreate View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	userSvc := user.NewService(userStore.New(db))
	friendSvc := friend.NewService(friendStore.New(db), userSvc)
	contribSvc := contribution.NewService(contributionStore.New(db))
	groupSvc := group.NewService(groupStore.New(db), userSvc, friendSvc, contribSvc)

	return model{
		groupService:        groupSvc,
		contributionService: contribSvc,
		userService:         userSvc,
		currentView:         ViewMenu,
		groupsView:          view.NewGroupsModel(groupSvc, userSvc),
		feedView:            view.NewFeedModel(contribSvc, userSvc),
		createView:          view.NewCreateModel(groupSvc, userSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewGroups
				m.groupsView = view.NewGroupsModel(m.groupService, m.userService)

				return m, m.groupsView.Init()
			case "2":
				m.currentView = ViewFeed
				m.feedView = view.NewFeedModel(m.contributionService, m.userService)

				return m, m.feedView.Init()
			case "3":
				m.currentView = ViewCreate
				m.createView = view.NewCreateModel(m.groupService, m.userService)

				return m, m.createView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewGroups:
		var newModel tea.Model
		newModel, cmd = m.groupsView.Update(msg)
		m.groupsView = newModel.(view.GroupsModel)
	case ViewFeed:
		var newModel tea.Model
		newModel, cmd = m.feedView.Update(msg)
		m.feedView = newModel.(view.FeedModel)
	case ViewCreate:
		var newModel tea.Model
		newModel, cmd = m.createView.Update(msg)
		m.createView = newModel.(view.CreateModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"SquareUp Ops Console\n\n" +
				"1. Browse Groups\n" +
				"2. Activity Feed\n" +
				"3. Create Group\n\n" +
				"q. Quit",
		)
	case ViewGroups:
		return m.groupsView.View()
	case ViewFeed:
		return m.feedView.View()
	case ViewCreate:
		return m.createView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

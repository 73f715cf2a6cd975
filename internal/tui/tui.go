// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-taskpro/internal/logger"
	"github.com/MKhiriev/go-taskpro/internal/session"
	"github.com/MKhiriev/go-taskpro/models"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUserQuit = errors.New("user quit the program")

// Session is the part of the session machine the pages drive.
type Session interface {
	Snapshot() session.Session
	Subscribe() (<-chan session.Session, func())

	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, name, email, password string) error
	Logout(ctx context.Context) error

	UpdateProfile(ctx context.Context, req models.ProfileUpdateRequest, avatar *models.Avatar) error
	ChangeTheme(ctx context.Context, theme models.Theme) error
	NeedHelp(ctx context.Context, comment string) error

	ClearError()
}

type TUI struct {
	session   Session
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

func New(s Session, buildInfo models.AppBuildInfo, logger *logger.Logger) *TUI {
	return &TUI{session: s, buildInfo: buildInfo, logger: logger}
}

// Run blocks until the user quits. It returns ErrUserQuit on ctrl+c.
func (t *TUI) Run(ctx context.Context) error {
	updates, unsubscribe := t.session.Subscribe()
	defer unsubscribe()

	root := NewRootModel(t.pages(ctx), pageMenu, t.buildInfo, t.session.Snapshot(), updates)
	finalModel, err := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.quitByUser {
		t.logger.Debug().Msg("user left the client")
		return ErrUserQuit
	}
	return nil
}

func (t *TUI) pages(ctx context.Context) map[string]tea.Model {
	return map[string]tea.Model{
		pageMenu:     NewMenuModel(),
		pageLogin:    NewLoginModel(ctx, t.session),
		pageRegister: NewRegisterModel(ctx, t.session),
		pageProfile:  NewProfileModel(ctx, t.session),
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	stepPendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stepRunningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	stepDoneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	stepFailedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	blockNameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	outputBoxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("238"))

	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	footerKeyStyle = lipgloss.NewStyle().Inherit(footerStyle).Foreground(lipgloss.Color("39"))
)

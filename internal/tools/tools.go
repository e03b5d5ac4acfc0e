//go:build tools

package tools

import (
	_ "github.com/charmbracelet/bubbles"
	_ "github.com/charmbracelet/bubbletea"
	_ "github.com/charmbracelet/huh"
	_ "github.com/charmbracelet/lipgloss"
	_ "github.com/google/uuid"
	_ "github.com/pelletier/go-toml/v2"
	_ "modernc.org/sqlite"
)

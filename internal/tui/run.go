package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the full-screen session until the user quits or ctx ends.
func Run(ctx context.Context, shell Shell, output *Output) error {
	program := tea.NewProgram(
		New(ctx, shell, output),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

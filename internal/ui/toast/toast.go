// Package toast renders transient notifications such as "Sprint complete".
package toast

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/codeflow/internal/types"
	"github.com/riordanpawley/codeflow/internal/ui/styles"
)

// ToastRenderer handles rendering of toast notifications
type ToastRenderer struct {
	styles *styles.Styles
}

// New creates a new ToastRenderer with the given styles
func New(styles *styles.Styles) *ToastRenderer {
	return &ToastRenderer{
		styles: styles,
	}
}

// Render stacks toasts vertically, right aligned.
// Returns empty string if no toasts to display
func (r *ToastRenderer) Render(toasts []types.Toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}

	toastWidth := min(max(width/3, 20), 40)

	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		style := r.styleForLevel(t.Level)
		rendered = append(rendered, style.Width(toastWidth).Render(Icon(t.Level)+" "+t.Message))
	}

	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}

// Icon returns the marker shown before a toast message
func Icon(level types.ToastLevel) string {
	switch level {
	case types.ToastSuccess:
		return "✓"
	case types.ToastWarning:
		return "!"
	case types.ToastError:
		return "✗"
	default:
		return "•"
	}
}

func (r *ToastRenderer) styleForLevel(level types.ToastLevel) lipgloss.Style {
	switch level {
	case types.ToastSuccess:
		return r.styles.ToastSuccess
	case types.ToastWarning:
		return r.styles.ToastWarning
	case types.ToastError:
		return r.styles.ToastError
	default:
		return r.styles.ToastInfo
	}
}

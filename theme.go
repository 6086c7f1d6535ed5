package agui

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so consumers
// automatically match any color scheme.
type Theme struct {
	UserMsg  int // User message accent
	ToolCall int // Tool call lines
	Error    int // Run and protocol errors
	Success  int // Completed run indicators
	Muted    int // Status bar, tool results, placeholders
	Accent   int // Thread ids, headings
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg:  4,
		ToolCall: 3,
		Error:    1,
		Success:  2,
		Muted:    8,
		Accent:   5,
	}
}

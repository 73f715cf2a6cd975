package tui

// errorOverlay frames a failed operation on top of the profile page.
func errorOverlay(message string) string {
	content := "Error\n\n" + message + "\n\nenter / esc: close"
	return overlayBoxStyle.Render(content)
}

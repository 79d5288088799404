package ui

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}

// clamp bounds a cursor to [0, n). An empty list pins it at zero.
func clamp(cursor, n int) int {
	if n <= 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

// visibleRange returns the [start, end) window of height rows that keeps
// cursor on screen, roughly centred.
func visibleRange(cursor, total, height int) (int, int) {
	if height <= 0 || total <= 0 {
		return 0, 0
	}
	if total <= height {
		return 0, total
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > total {
		start = total - height
	}
	return start, start + height
}

// mask hides all but the first four characters of a credential.
func mask(s string) string {
	runes := []rune(s)
	if len(runes) <= 4 {
		return "****"
	}
	return string(runes[:4]) + "****"
}

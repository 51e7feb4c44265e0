package tooling

// wordAt extracts the identifier-like word under pos from text,
// expanding left then right while the rune is alphanumeric or '_'. An
// empty word yields ok=false.
func wordAt(text string, pos Position) (word string, wordRange Range, ok bool) {
	lines := splitLines(text)
	if pos.Line < 0 || pos.Line >= len(lines) {
		return "", Range{}, false
	}
	line := lines[pos.Line]
	if pos.Character < 0 || pos.Character > len(line) {
		return "", Range{}, false
	}

	start := pos.Character
	for start > 0 && isWordChar(line[start-1]) {
		start--
	}
	end := pos.Character
	for end < len(line) && isWordChar(line[end]) {
		end++
	}

	if start == end {
		return "", Range{}, false
	}

	word = line[start:end]
	wordRange = Range{
		Start: Position{Line: pos.Line, Character: start},
		End:   Position{Line: pos.Line, Character: end},
	}
	return word, wordRange, true
}

func isWordChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			end := i
			if end > start && text[end-1] == '\r' {
				end--
			}
			lines = append(lines, text[start:end])
			start = i + 1
		}
	}
	lines = append(lines, text[start:])
	return lines
}

package terminal

import "strings"

// Complete performs tab completion on input and returns the new input.
//
// The first word completes against command names, later words against the
// names in the current directory. A single candidate replaces the word. With
// several candidates the first Tab extends the word to their common prefix
// and a second Tab on the same input prints them after the prompt.
func (t *Terminal) Complete(input string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	candidates := t.completions(input)
	parts := strings.Split(input, " ")
	last := parts[len(parts)-1]

	switch {
	case len(candidates) == 1:
		t.tabbing = false
		parts[len(parts)-1] = candidates[0]
		return strings.Join(parts, " ")

	case len(candidates) > 1:
		if t.tabbing && t.tabInput == input {
			t.tabbing = false
			t.print(t.prompt()+input, strings.Join(candidates, "  "), "")
			return input
		}
		if prefix := commonPrefix(candidates); len(prefix) > len(last) {
			parts[len(parts)-1] = prefix
			input = strings.Join(parts, " ")
		}
		t.tabbing = true
		t.tabInput = input
		return input
	}

	t.tabbing = false
	return input
}

// Completions returns the candidates for the last word of input.
func (t *Terminal) Completions(input string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completions(input)
}

func (t *Terminal) completions(input string) []string {
	parts := strings.Split(input, " ")
	last := parts[len(parts)-1]

	var pool []string
	if len(parts) == 1 {
		pool = CommandNames()
	} else {
		pool = t.dir().Names()
	}

	var out []string
	for _, name := range pool {
		if strings.HasPrefix(name, last) {
			out = append(out, name)
		}
	}
	return out
}

func commonPrefix(words []string) string {
	prefix := words[0]
	for _, w := range words[1:] {
		i := 0
		for i < len(prefix) && i < len(w) && prefix[i] == w[i] {
			i++
		}
		prefix = prefix[:i]
	}
	return prefix
}

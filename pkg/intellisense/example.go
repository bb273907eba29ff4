package intellisense

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Example demonstrates the completer in a minimal interactive loop: every
// line of input is treated as a query under edit with the cursor at its end,
// and the ranked suggestions are printed.
func Example() {
	data := map[string]interface{}{
		"users": []interface{}{
			map[string]interface{}{
				"name":   "Alice",
				"email":  "alice@example.com",
				"active": true,
				"age":    30,
			},
			map[string]interface{}{
				"name":   "Bob",
				"email":  "bob@example.com",
				"active": false,
				"age":    25,
			},
		},
		"metadata": map[string]interface{}{
			"version": "1.0",
			"count":   2,
		},
	}

	c, err := NewCompleter(data, Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating completer: %v\n", err)
		return
	}

	fmt.Fprintln(os.Stdout, "Suggestion explorer")
	fmt.Fprintln(os.Stdout, "Type partial queries to see suggestions. Examples:")
	fmt.Fprintln(os.Stdout, "  .")
	fmt.Fprintln(os.Stdout, "  .users[].")
	fmt.Fprintln(os.Stdout, "  .users | map(.")
	fmt.Fprintln(os.Stdout)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(os.Stdout, "❯ ")
		if !scanner.Scan() {
			break
		}

		input := scanner.Text()
		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}

		if trimmed == "functions" {
			showFunctions()
			continue
		}
		if trimmed == "exit" || trimmed == "quit" {
			break
		}

		showSuggestions(c, input)
	}

	fmt.Fprintln(os.Stdout, "\nGoodbye!")
}

// showSuggestions prints the verdict for input with the cursor at its end.
func showSuggestions(c *Completer, input string) {
	res := c.Suggest(input, len(input))
	if len(res.Suggestions) == 0 {
		fmt.Fprintln(os.Stdout, "No suggestions here")
		return
	}

	if res.Certainty == NonDeterministic {
		fmt.Fprintln(os.Stdout, "(approximate: fields drawn from the whole document)")
	}

	for _, s := range res.Suggestions {
		kindLabel := ""
		switch s.Kind {
		case SuggestionField:
			kindLabel = "[field]"
		case SuggestionFunction:
			kindLabel = "[function]"
		case SuggestionOperator:
			kindLabel = "[operator]"
		case SuggestionPattern:
			kindLabel = "[pattern]"
		case SuggestionVariable:
			kindLabel = "[variable]"
		}

		detail := s.Type
		if detail == "" {
			detail = s.Description
		}
		fmt.Fprintf(os.Stdout, "  %-10s %-24s %s\n", kindLabel, s.Display, detail)
	}
	fmt.Fprintln(os.Stdout)
}

// showFunctions lists every builtin grouped by category.
func showFunctions() {
	reg := Functions()
	fmt.Fprintf(os.Stdout, "\nAvailable functions (%d):\n\n", reg.Size())

	for _, cat := range reg.GetCategories() {
		fmt.Fprintf(os.Stdout, "=== %s ===\n", strings.ToUpper(cat))
		for _, fn := range reg.GetByCategory(cat) {
			fmt.Fprintf(os.Stdout, "  %-30s %s\n", fn.Signature, fn.Description)
		}
		fmt.Fprintln(os.Stdout)
	}
}

// ExampleIntegration shows the insertion arithmetic a host popup needs: a
// chosen suggestion's Text replaces the partial token, whose length comes
// from the result itself.
func ExampleIntegration() {
	myData := map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"id": 1, "name": "Widget"},
			map[string]interface{}{"id": 2, "name": "Gadget"},
		},
	}

	c, err := NewCompleter(myData, Options{MaxSuggestions: 5})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}

	// The user typed ".items[0].n" and the cursor sits at the end.
	text := ".items[0].n"
	cursor := len(text)

	res := c.Suggest(text, cursor)
	if len(res.Suggestions) == 0 {
		return
	}
	chosen := res.Suggestions[0] // "name"

	// Every suggestion extends the partial token ("n" here), so inserting
	// means replacing the partial's bytes before the cursor.
	start := cursor - len(res.Path.Partial)
	next := text[:start] + chosen.Text + text[cursor:]

	fmt.Fprintf(os.Stdout, "Completed query: %s\n", next)
}

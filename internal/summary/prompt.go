package summary

import (
	"errors"
	"fmt"
	"os"
)

// promptPlaceholder seeds a missing prompt file so the user has something to
// edit.
const promptPlaceholder = "The system prompt file was not found. Write here the system prompt you want to use."

// ErrPromptCreated signals that the prompt file was absent and has just been
// created with placeholder text. The summary step aborts; the next run picks
// up whatever the user put there.
var ErrPromptCreated = errors.New("system prompt file created")

// LoadSystemPrompt reads the model instructions from path, creating the file
// with placeholder text when it does not exist yet.
func LoadSystemPrompt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("read system prompt: %w", err)
		}
		if werr := os.WriteFile(path, []byte(promptPlaceholder), 0o644); werr != nil {
			return "", fmt.Errorf("create system prompt file: %w", werr)
		}
		return "", fmt.Errorf("%w: %s, fill it in before summarizing", ErrPromptCreated, path)
	}
	return string(data), nil
}

// Package prompt loads the per-language prompt template and fills it for one
// dataset record.
package prompt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pkoukk/tiktoken-go"

	"rubricgen/pkg/dataset"
)

// examplePlaceholder marks where the sample manual is spliced into the
// template, when one is provided alongside it.
const examplePlaceholder = "{None}"

// LoadTemplate reads prompt_template_<lang>.txt from inputDir. When
// manual_example_<lang>.txt exists next to it, its content replaces the
// example placeholder so the model sees a complete manual to imitate.
func LoadTemplate(inputDir, lang string) (string, error) {
	templatePath := filepath.Join(inputDir, fmt.Sprintf("prompt_template_%s.txt", lang))
	raw, err := os.ReadFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("read prompt template: %w", err)
	}
	template := string(raw)

	examplePath := filepath.Join(inputDir, fmt.Sprintf("manual_example_%s.txt", lang))
	if example, err := os.ReadFile(examplePath); err == nil {
		template = strings.Replace(template, examplePlaceholder, string(example), 1)
	}

	log.Info("prompt template loaded", "language", lang, "path", templatePath)
	return template, nil
}

// Fill substitutes the record's fields into the language-specific
// placeholders, then strips blank lines and per-line whitespace.
func Fill(template, lang string, rec dataset.Record) (string, error) {
	if rec.Subject == "" || rec.SubSubject == "" || rec.Requirement == "" {
		return "", errors.New("subject, sub-subject and experiment name must all be non-empty")
	}

	var filled string
	switch lang {
	case "cn":
		filled = strings.NewReplacer(
			"{学科}", rec.Subject,
			"{子学科}", rec.SubSubject,
			"{实验名称}", rec.Requirement,
		).Replace(template)
	case "en":
		filled = strings.NewReplacer(
			"{Discipline}", rec.Subject,
			"{Subdiscipline}", rec.SubSubject,
			"{ExperimentName}", rec.Requirement,
		).Replace(template)
	default:
		return "", fmt.Errorf("unsupported language: %s", lang)
	}

	var lines []string
	for _, line := range strings.Split(filled, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// CountTokens measures text with the gpt-4 tokenizer, close enough across the
// OpenAI-compatible gateways to warn before a prompt crowds out the
// completion budget.
func CountTokens(text string) (int, error) {
	tkm, err := tiktoken.EncodingForModel("gpt-4-0613")
	if err != nil {
		return 0, err
	}
	return len(tkm.Encode(text, nil, nil)), nil
}

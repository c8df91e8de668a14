package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rubricgen/pkg/dataset"
)

func record() dataset.Record {
	return dataset.Record{
		Subject:     "Chemistry",
		SubSubject:  "Inorganic",
		Requirement: "Prepare hydrogen",
	}
}

func TestLoadTemplate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "prompt_template_en.txt"),
		[]byte("Generate a manual.\nExample:\n{None}\n"), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "manual_example_en.txt"),
		[]byte("I. Basic Experiment Information"), 0o644))

	tmpl, err := LoadTemplate(dir, "en")
	require.NoError(t, err)
	assert.Contains(t, tmpl, "I. Basic Experiment Information")
	assert.NotContains(t, tmpl, "{None}")
}

func TestLoadTemplateWithoutExample(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "prompt_template_en.txt"),
		[]byte("Generate a manual for {ExperimentName}."), 0o644))

	tmpl, err := LoadTemplate(dir, "en")
	require.NoError(t, err)
	assert.Equal(t, "Generate a manual for {ExperimentName}.", tmpl)
}

func TestLoadTemplateMissing(t *testing.T) {
	_, err := LoadTemplate(t.TempDir(), "en")
	assert.Error(t, err)
}

func TestFillEnglish(t *testing.T) {
	tmpl := "  Discipline: {Discipline}  \n\n  Sub: {Subdiscipline}\nExperiment: {ExperimentName}\n   \n"
	filled, err := Fill(tmpl, "en", record())
	require.NoError(t, err)
	assert.Equal(t, "Discipline: Chemistry\nSub: Inorganic\nExperiment: Prepare hydrogen", filled)
}

func TestFillChinese(t *testing.T) {
	tmpl := "学科：{学科}\n子学科：{子学科}\n实验：{实验名称}"
	filled, err := Fill(tmpl, "cn", record())
	require.NoError(t, err)
	assert.Equal(t, "学科：Chemistry\n子学科：Inorganic\n实验：Prepare hydrogen", filled)
}

func TestFillRejectsEmptyFields(t *testing.T) {
	rec := record()
	rec.SubSubject = ""
	_, err := Fill("{Discipline}", "en", rec)
	assert.Error(t, err)
}

func TestFillRejectsUnknownLanguage(t *testing.T) {
	_, err := Fill("{Discipline}", "fr", record())
	assert.Error(t, err)
}

func TestCountTokens(t *testing.T) {
	n, err := CountTokens("Prepare hydrogen by downward displacement of air.")
	if err != nil {
		t.Skipf("tokenizer data unavailable: %v", err)
	}
	assert.Greater(t, n, 0)
}

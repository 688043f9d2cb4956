package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	weatherCSV = `day,temp,condition
Monday,12,Sunny
Tuesday,14,Rain
Wednesday,15,Sunny
`
	statesCSV = `state,x,y
Alabama,139,-77
Ohio,10,20
`
	alphabetCSV = `letter,code
A,Alfa
B,Bravo
C,Charlie
`
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestVersionAndUsage(t *testing.T) {
	code, out, _ := runCLI(t, "", "-version")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "Version:")

	code, _, errOut := runCLI(t, "")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "Commands:")

	code, _, errOut = runCLI(t, "", "bogus")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, `unknown command "bogus"`)
}

func TestStats(t *testing.T) {
	path := writeFile(t, "weather.csv", weatherCSV)

	code, out, _ := runCLI(t, "", "stats", "-file", path, "-column", "temp", "-op", "max")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "max(temp) = 15\n", out)

	code, out, _ = runCLI(t, "", "stats", "-file", path)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "temp")

	code, _, errOut := runCLI(t, "", "stats", "-file", path, "-column", "condition")
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "Error:")

	code, _, _ = runCLI(t, "", "stats")
	assert.Equal(t, exitUsage, code)
}

func TestFilter(t *testing.T) {
	path := writeFile(t, "weather.csv", weatherCSV)
	out := filepath.Join(t.TempDir(), "sunny.csv")

	code, stdout, _ := runCLI(t, "", "filter", "-file", path, "-column", "condition", "-value", "sunny",
		"-fold", "-out", out, "-no-index")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "Saved 2 rows")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "day,temp,condition\nMonday,12,Sunny\nWednesday,15,Sunny\n", string(data))

	code, stdout, _ = runCLI(t, "", "filter", "-file", path, "-max", "temp")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "Wednesday")

	code, _, _ = runCLI(t, "", "filter", "-file", path, "-column", "temp", "-value", "warm")
	assert.Equal(t, exitError, code)
}

func TestLookup(t *testing.T) {
	path := writeFile(t, "states.csv", statesCSV)

	code, out, _ := runCLI(t, "", "lookup", "-file", path, "-column", "state", "-key", "ohio")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "state: Ohio\nx: 10\ny: 20\n", out)

	code, _, errOut := runCLI(t, "", "lookup", "-file", path, "-column", "state", "-key", "Atlantis")
	assert.Equal(t, exitNotFound, code)
	assert.Contains(t, errOut, "not found")
}

func TestCounts(t *testing.T) {
	path := writeFile(t, "weather.csv", weatherCSV)

	code, out, _ := runCLI(t, "", "counts", "-file", path, "-column", "condition")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "Sunny")
	assert.Contains(t, out, "Count")
}

func TestPhonetic(t *testing.T) {
	path := writeFile(t, "nato.csv", alphabetCSV)

	code, out, _ := runCLI(t, "ab1\ncab\n", "phonetic", "-alphabet", path)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "Sorry, only letters in the alphabet please.")
	assert.Contains(t, out, "[Charlie, Alfa, Bravo]")
}

func TestStates(t *testing.T) {
	path := writeFile(t, "states.csv", statesCSV)
	missed := filepath.Join(t.TempDir(), "missed.csv")

	code, out, _ := runCLI(t, "ohio\nohio\natlantis\nexit\n", "states", "-file", path, "-missed", missed)
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "Ohio is at (10, 20)")
	assert.Contains(t, out, "Ohio was already guessed")
	assert.Contains(t, out, `"Atlantis" is not a state`)
	assert.Contains(t, out, "Final score: 1/2")

	data, err := os.ReadFile(missed)
	require.NoError(t, err)
	assert.Equal(t, ",state,x,y\n0,Alabama,139,-77\n", string(data))

	code, out, _ = runCLI(t, "alabama\nohio\n", "states", "-file", path, "-missed", missed)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "You named all 2 states!")
}

func TestTimings(t *testing.T) {
	path := writeFile(t, "weather.csv", weatherCSV)

	code, _, errOut := runCLI(t, "", "-timings", "stats", "-file", path, "-column", "temp")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, errOut, "load")
	assert.Contains(t, errOut, "stats")
	assert.Contains(t, errOut, "(2 operations, 0 failed)")
}

func TestMissingFlagsReportedInOrder(t *testing.T) {
	for range 20 {
		code, _, errOut := runCLI(t, "", "lookup")
		assert.Equal(t, exitUsage, code)
		assert.Contains(t, errOut, "Error: -file is required")
		assert.NotContains(t, errOut, "Error: -column is required")
	}

	path := writeFile(t, "states.csv", statesCSV)
	code, _, errOut := runCLI(t, "", "lookup", "-file", path)
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "Error: -column is required")
}

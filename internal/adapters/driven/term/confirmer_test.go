package term

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testConfirmer(input string, tty bool) (*Confirmer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &Confirmer{
		in:         strings.NewReader(input),
		out:        out,
		isTerminal: func() bool { return tty },
	}, out
}

func TestConfirm_DefaultsToYes(t *testing.T) {
	for _, input := range []string{"\n", "y\n", "Y\n", "yes\n", "  YES  \n"} {
		c, _ := testConfirmer(input, true)
		assert.True(t, c.Confirm("Overwrite?"), "input %q", input)
	}
}

func TestConfirm_Decline(t *testing.T) {
	for _, input := range []string{"n\n", "N\n", "no\n", "whatever\n"} {
		c, _ := testConfirmer(input, true)
		assert.False(t, c.Confirm("Overwrite?"), "input %q", input)
	}
}

func TestConfirm_PromptShowsChoices(t *testing.T) {
	c, out := testConfirmer("y\n", true)
	c.Confirm("Overwrite?")
	assert.Contains(t, out.String(), "Overwrite? [Y/n]")
}

func TestConfirm_NonInteractiveDeclines(t *testing.T) {
	c, out := testConfirmer("y\n", false)
	assert.False(t, c.Confirm("Overwrite?"))
	assert.Empty(t, out.String(), "no prompt without a terminal")
}

func TestConfirm_EOFDeclines(t *testing.T) {
	c, _ := testConfirmer("", true)
	assert.False(t, c.Confirm("Overwrite?"))
}

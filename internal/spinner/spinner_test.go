package spinner

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStart_DrawsAndClears(t *testing.T) {
	var buf bytes.Buffer
	stop := Start(&buf, "Checking files")
	time.Sleep(3 * Interval)
	stop()
	stop()

	out := buf.String()
	assert.Contains(t, out, frames[0]+" Checking files")
	assert.True(t, strings.HasSuffix(out, "\r"+strings.Repeat(" ", len("Checking files")+2)+"\r"), "line is cleared on stop")
}

func TestStart_ClearsWideMessages(t *testing.T) {
	var buf bytes.Buffer
	stop := Start(&buf, "検査")
	stop()

	assert.Equal(t, "\r      \r", buf.String())
}

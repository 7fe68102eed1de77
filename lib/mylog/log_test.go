package mylog

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := standardLogger{componentName: "checkoutsession", out: buf}

	logger.Log(context.TODO(), "abc", SeverityWarn, "amount %d too low", 10)

	assert.Equal(t, "checkoutsession - abc - WARN - amount 10 too low\n", buf.String())
}

func TestStructuredEntry(t *testing.T) {
	e := entry{
		Component: "checkoutsession",
		Labels:    labels("abc"),
		Trace:     "projects/p/traces/t",
		Severity:  string(SeverityError),
		Message:   "checkoutsession:boom",
	}

	parsed := map[string]any{}
	err := json.Unmarshal([]byte(e.String()), &parsed)
	assert.NoError(t, err)
	assert.Equal(t, "ERROR", parsed["severity"])
	assert.Equal(t, "projects/p/traces/t", parsed["logging.googleapis.com/trace"])
	assert.Equal(t, map[string]any{"aggregate": "abc"}, parsed["logging.googleapis.com/labels"])
	assert.Nil(t, labels(""))
}

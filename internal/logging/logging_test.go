// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Logger setup tests

package logging_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sony-level/tw-scaffold/internal/logging"
)

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer

	logging.New(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())

	logging.New(&buf, true).Debug("shown", "step", "build")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "step=build")
}

package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"playharvest/pkg/logger"
	"playharvest/pkg/ui"
)

func TestReportFailure(t *testing.T) {
	log := logger.NewTestLogger()
	prevLogger := logger.GetLogger()
	logger.SetLogger(log)
	defer logger.SetLogger(prevLogger)

	var out, errOut bytes.Buffer
	prevOut, prevErr := ui.Output(), ui.ErrorOutput()
	ui.SetOutput(&out)
	ui.SetErrorOutput(&errOut)
	defer ui.SetOutput(prevOut)
	defer ui.SetErrorOutput(prevErr)

	reportFailure(errors.New("export failed: disk full"))

	assert.Contains(t, errOut.String(), "export failed: disk full")
	assert.Empty(t, out.String())

	failures := log.GetMessagesByLevel("ERROR")
	require.Len(t, failures, 1)
	assert.Equal(t, "command failed", failures[0].Message)
	assert.EqualError(t, failures[0].Error, "export failed: disk full")
}

func TestHarvestHelpDocumentsInterruptExit(t *testing.T) {
	assert.Contains(t, harvestCmd.Long, "exits 0")
}

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestaozabele/membros/internal/intencao"
)

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, []intencao.Intencao{{Nome: "Ana Souza", Status: intencao.StatusPending}}))
	assert.Contains(t, buf.String(), `"nome": "Ana Souza"`)
}

func TestPrintJSONReturnsEncodeError(t *testing.T) {
	var buf bytes.Buffer
	err := printJSON(&buf, map[string]any{"canal": make(chan int)})
	assert.ErrorContains(t, err, "serializar saída")
	assert.Zero(t, buf.Len())
}

func TestRunMigrateRejectsUnknownSubcommand(t *testing.T) {
	assert.Error(t, runMigrate("postgres://localhost/membros", nil))
	assert.ErrorContains(t, runMigrate("postgres://localhost/membros", []string{"sideways"}), "desconhecido")
}

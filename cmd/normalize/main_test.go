package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deds0099/nexaapp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payload = `[{"json": {"output": {"descricao": "Pão de queijo", "calorias_totais_kcal": "320 kcal", "macro_nutrientes": {"proteinas_g": 8, "carboidratos_g": 40, "gorduras_totais_g": 14}}}}]`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNormalize_FromStdin(t *testing.T) {
	// the second envelope is only reached on the second pass
	out, err := run(t, payload, "--passes", "2")
	require.NoError(t, err)

	var result domain.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "Pão de queijo", result.Description)
	assert.Equal(t, 320.0, result.TotalCalories)
}

func TestNormalize_SinglePassLeavesNestedEnvelope(t *testing.T) {
	out, err := run(t, payload)

	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	assert.Contains(t, out, `"raw"`)
}

func TestNormalize_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"calorias_totais_kcal": 99}`), 0o644))

	out, err := run(t, "", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"totalCalories": 99`)
}

func TestNormalize_Errors(t *testing.T) {
	_, err := run(t, "", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "read payload")

	_, err = run(t, "{}", "--passes", "0")
	assert.ErrorContains(t, err, "at least 1")

	out, err := run(t, "not json at all")
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	assert.Contains(t, out, `"raw": "not json at all"`)
}

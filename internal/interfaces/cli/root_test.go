package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/regionmap/pkg/errors"
)

const testGeoJSON = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"name":"Тверская область"},
  "geometry":{"type":"Polygon","coordinates":[[[34,56],[36,56],[36,58],[34,58],[34,56]]]}}]}`

// writeConfig returns a config file backed by a one-region map and the
// fixture representatives.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	geoPath := filepath.Join(dir, "map.geojson")
	require.NoError(t, os.WriteFile(geoPath, []byte(testGeoJSON), 0o600))

	cfg := "geo:\n  kind: file\n  path: " + geoPath + "\n" +
		"representatives:\n  source:\n    kind: fixture\n" + extra
	path := filepath.Join(dir, "regionmap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func run(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	all := append([]string{"--config", configPath, "--env-file", filepath.Join(t.TempDir(), "none.env")}, args...)
	cmd.SetArgs(all)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "regionmap", cmd.Use)

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"regions", "lookup", "contacts", "stats", "render", "locate", "migrate", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}

	for _, flag := range []string{"config", "env-file", "log-level", "format", "verbose", "timeout"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "missing flag %s", flag)
	}
}

func TestRoot_InvalidFormat(t *testing.T) {
	_, _, err := run(t, writeConfig(t, ""), "--format", "xml", "version")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestVersion_JSON(t *testing.T) {
	out, _, err := run(t, writeConfig(t, ""), "-f", "json", "version")
	require.NoError(t, err)

	var v versionResult
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, Version, v.Version)
	assert.NotEmpty(t, v.GoVersion)
}

func TestRegions_Table(t *testing.T) {
	out, _, err := run(t, writeConfig(t, ""), "regions")
	require.NoError(t, err)
	assert.Contains(t, out, "RU-TVE")
	assert.Contains(t, out, "Тверская область")
}

func TestRegions_GroupFilterJSON(t *testing.T) {
	out, _, err := run(t, writeConfig(t, ""), "-f", "json", "regions", "--group", "ЦФО")
	require.NoError(t, err)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.NotEmpty(t, rows)
	assert.Len(t, rows, 18)
	for _, r := range rows {
		assert.Equal(t, "ЦФО", r["info"])
	}
	assert.Equal(t, "RU-BEL", rows[0]["id"])
}

func TestRegions_UnknownGroup(t *testing.T) {
	_, _, err := run(t, writeConfig(t, ""), "regions", "--group", "XФО")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Contains(t, err.Error(), "unknown region group")
}

func TestLookup(t *testing.T) {
	out, _, err := run(t, writeConfig(t, ""), "-f", "json", "lookup", "г.", "Москва")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "RU-MOW"`)
}

func TestLookup_Unknown(t *testing.T) {
	_, _, err := run(t, writeConfig(t, ""), "lookup", "Атлантида")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestContacts(t *testing.T) {
	out, _, err := run(t, writeConfig(t, ""), "contacts", "RF-TVE")
	require.NoError(t, err)
	assert.Contains(t, out, "Иванов Иван Иванович")
	assert.Contains(t, out, "ИИ")
}

func TestStats(t *testing.T) {
	out, _, err := run(t, writeConfig(t, ""), "-f", "json", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, `"total_representatives"`)
}

func TestRender_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.svg")
	out, _, err := run(t, writeConfig(t, ""), "render", "--out", path, "--selected", "RF-TVE")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	doc, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(string(doc)), "<svg"))
	assert.Contains(t, string(doc), "Тверская область")
}

func TestRender_Stdout(t *testing.T) {
	out, _, err := run(t, writeConfig(t, ""), "render", "--out", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "</svg>")
}

func TestRender_UploadRequiresMinIO(t *testing.T) {
	_, _, err := run(t, writeConfig(t, ""), "render", "--out", filepath.Join(t.TempDir(), "x.svg"), "--upload")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeFeatureDisabled))
}

func TestLocate_Point(t *testing.T) {
	out, _, err := run(t, writeConfig(t, ""), "-f", "json", "locate", "--lon", "35", "--lat", "57")
	require.NoError(t, err)
	assert.Contains(t, out, `"RU-TVE"`)
	assert.Contains(t, out, `"method": "point"`)
}

func TestLocate_FlagErrors(t *testing.T) {
	cfg := writeConfig(t, "")

	_, _, err := run(t, cfg, "locate")
	assert.True(t, errors.IsValidation(err))

	_, _, err = run(t, cfg, "locate", "--lon", "35", "--ip", "1.2.3.4")
	assert.True(t, errors.IsValidation(err))

	_, _, err = run(t, cfg, "locate", "--lon", "35")
	assert.True(t, errors.IsCode(err, errors.CodeInvalidCoordinate))
}

func TestLocate_IPDisabled(t *testing.T) {
	_, _, err := run(t, writeConfig(t, ""), "locate", "--ip", "8.8.8.8")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeGeoIPDisabled))
}

func TestExportKey(t *testing.T) {
	assert.Equal(t, "maps/0123456789ab-fedcba987654-RU-MOW.svg",
		exportKey("0123456789abcdef", "fedcba9876543210", "RU-MOW"))
	assert.Equal(t, "maps/abc-def.svg", exportKey("abc", "def", ""))
}

func TestPrintError(t *testing.T) {
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetErr(&buf)

	PrintError(cmd, errors.New(errors.CodeRegionNotFound, "region not found").WithDetail("RU-XXX"))
	assert.Equal(t, "Error [REGION_001]: region not found: RU-XXX\n", buf.String())

	buf.Reset()
	PrintError(cmd, assert.AnError)
	assert.Contains(t, buf.String(), "Error: ")
}

//Personal.AI order the ending

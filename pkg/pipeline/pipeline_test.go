package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/practicemap/pkg/errors"
	"github.com/agentstation/practicemap/pkg/ingest"
	"github.com/agentstation/practicemap/pkg/logging"
	"github.com/agentstation/practicemap/pkg/pipeline"
	"github.com/agentstation/practicemap/pkg/practice"
)

type row struct {
	code, name, status, setting string
}

func registryFile(t *testing.T, dir, name string, rows ...row) string {
	t.Helper()
	var lines []string
	for _, r := range rows {
		cols := make([]string, 27)
		cols[0] = r.code
		cols[1] = r.name
		cols[4] = "1 HIGH STREET"
		cols[9] = "AB1 2CD"
		cols[12] = r.status
		cols[17] = "0100 000000"
		cols[25] = r.setting
		lines = append(lines, strings.Join(cols, ","))
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func directoryFile(t *testing.T, dir string, lines ...string) string {
	t.Helper()
	content := "OrganisationCode\xacLatitude\xacLongitude\n" + strings.Join(lines, "\n") + "\n"
	path := filepath.Join(dir, "gp.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func codes(records []practice.OutputRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.OrganisationCode)
	}
	return out
}

func TestRunJoined(t *testing.T) {
	dir := t.TempDir()
	reg := registryFile(t, dir, "epraccur.csv",
		row{"A001", "OPEN PRACTICE", "A", "4"},
		row{"A002", "CLOSED PRACTICE", "C", "4"},
	)
	gp := directoryFile(t, dir, "A001\xac51.5\xac-0.12")

	res, err := pipeline.New().Run(context.Background(), pipeline.Input{
		RegistryFiles: []string{reg},
		DirectoryFile: gp,
	})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	got := res.Records[0]
	assert.Equal(t, "A001", got.OrganisationCode)
	assert.Equal(t, "Open Practice", got.Name)
	assert.Nil(t, got.Address)
	require.NotNil(t, got.Location)
	assert.Equal(t, "1 High Street, Ab1 2Cd", got.Location.Address)
	assert.Equal(t, "51.5", got.Location.Latitude)
	assert.Equal(t, "-0.12", got.Location.Longitude)

	assert.Equal(t, 1, res.Stats.Dropped[practice.Inactive])
	assert.Equal(t, 1, res.Stats.Emitted)
}

func TestRunRegistryOnly(t *testing.T) {
	dir := t.TempDir()
	reg := registryFile(t, dir, "epraccur.csv", row{"A001", "OPEN PRACTICE", "A", "4"})

	res, err := pipeline.New().Run(context.Background(), pipeline.Input{RegistryFiles: []string{reg}})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Nil(t, res.Records[0].Location)
	require.NotNil(t, res.Records[0].Address)
	assert.Equal(t, "1 High Street, Ab1 2Cd", *res.Records[0].Address)
}

func TestRunAmendmentsOverride(t *testing.T) {
	dir := t.TempDir()
	base := registryFile(t, dir, "base.csv",
		row{"A001", "BASE NAME", "A", "4"},
		row{"A002", "STILL OPEN", "A", "4"},
	)
	amend := registryFile(t, dir, "amend.csv",
		row{"A001", "AMENDED NAME", "A", "4"},
		row{"A002", "STILL OPEN", "C", "4"},
	)

	t.Run("amendment last", func(t *testing.T) {
		res, err := pipeline.New().Run(context.Background(), pipeline.Input{RegistryFiles: []string{base, amend}})
		require.NoError(t, err)
		require.Len(t, res.Records, 1)
		assert.Equal(t, "Amended Name", res.Records[0].Name)
		assert.Equal(t, 2, res.Stats.Overridden)
	})

	t.Run("amendment first", func(t *testing.T) {
		res, err := pipeline.New().Run(context.Background(), pipeline.Input{RegistryFiles: []string{amend, base}})
		require.NoError(t, err)
		assert.Equal(t, []string{"A001", "A002"}, codes(res.Records))
		assert.Equal(t, "Base Name", res.Records[0].Name)
	})
}

func TestRunSameFileTwice(t *testing.T) {
	dir := t.TempDir()
	reg := registryFile(t, dir, "epraccur.csv", row{"A001", "OPEN", "A", "4"}, row{"A002", "OPEN", "A", "4"})

	res, err := pipeline.New().Run(context.Background(), pipeline.Input{RegistryFiles: []string{reg, reg}})
	require.NoError(t, err)

	assert.Equal(t, []pipeline.FileStats{
		{Position: 0, Path: reg, Rows: 2},
		{Position: 1, Path: reg, Rows: 2},
	}, res.Stats.RegistryFiles)
	assert.Equal(t, 2, res.Stats.Overridden)
	assert.Equal(t, 2, res.Stats.Merged)
}

func TestRunFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	reg := registryFile(t, dir, "epraccur.csv",
		row{"C003", "C", "A", "4"},
		row{"A001", "A", "A", "4"},
		row{"B002", "B", "A", "4"},
		row{"B001", "NOT GP", "A", "1"},
		row{"B003", "CLOSED", "C", "1"},
	)
	gp := directoryFile(t, dir, "Z999\xac1\xac1", "B002\xac2\xac2")

	res, err := pipeline.New().Run(context.Background(), pipeline.Input{RegistryFiles: []string{reg}, DirectoryFile: gp})
	require.NoError(t, err)

	assert.Equal(t, []string{"A001", "B002", "C003"}, codes(res.Records))
	assert.Equal(t, 1, res.Stats.Dropped[practice.Incomplete], "directory-only code")
	assert.Equal(t, 1, res.Stats.Dropped[practice.Inactive])
	assert.Equal(t, 1, res.Stats.Dropped[practice.NotGPPractice])
	assert.Equal(t, 6, res.Stats.Joined)

	for _, r := range res.Records {
		require.NotNil(t, r.Location)
		if r.OrganisationCode == "B002" {
			assert.Equal(t, "2", r.Location.Latitude)
		} else {
			assert.Empty(t, r.Location.Latitude)
			assert.Empty(t, r.Location.Longitude)
		}
	}
}

func TestRunEmptyResult(t *testing.T) {
	dir := t.TempDir()
	reg := registryFile(t, dir, "epraccur.csv", row{"A001", "CLOSED", "C", "4"})

	res, err := pipeline.New().Run(context.Background(), pipeline.Input{RegistryFiles: []string{reg}})
	require.NoError(t, err)
	assert.NotNil(t, res.Records)
	assert.Empty(t, res.Records)
}

func TestRunOptions(t *testing.T) {
	dir := t.TempDir()
	reg := registryFile(t, dir, "epraccur.csv", row{"A001", "DISPENSARY", "A", "2"})
	gp := filepath.Join(dir, "gp.txt")
	require.NoError(t, os.WriteFile(gp, []byte("OrganisationCode|Latitude\nA001|53.1\n"), 0o644))

	p := pipeline.New(
		pipeline.WithDirectoryOptions(ingest.WithDelimiter("|")),
		pipeline.WithPracticeOptions(practice.WithPrescribingSetting("2")),
	)
	res, err := p.Run(context.Background(), pipeline.Input{RegistryFiles: []string{reg}, DirectoryFile: gp})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "53.1", res.Records[0].Location.Latitude)
}

func TestRunFailures(t *testing.T) {
	dir := t.TempDir()
	reg := registryFile(t, dir, "epraccur.csv", row{"A001", "OPEN", "A", "4"})

	t.Run("no registry files", func(t *testing.T) {
		_, err := pipeline.New().Run(context.Background(), pipeline.Input{})
		assert.True(t, errors.IsUsage(err))
	})

	t.Run("missing amendment aborts", func(t *testing.T) {
		res, err := pipeline.New().Run(context.Background(), pipeline.Input{
			RegistryFiles: []string{reg, filepath.Join(dir, "missing.csv")},
		})
		assert.Nil(t, res)
		assert.True(t, errors.IsIO(err))
	})

	t.Run("missing directory aborts", func(t *testing.T) {
		res, err := pipeline.New().Run(context.Background(), pipeline.Input{
			RegistryFiles: []string{reg},
			DirectoryFile: filepath.Join(dir, "missing-gp.csv"),
		})
		assert.Nil(t, res)
		assert.True(t, errors.IsIO(err))
	})

	t.Run("schema error aborts", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.csv")
		require.NoError(t, os.WriteFile(bad, []byte("A001,TOO,SHORT\n"), 0o644))
		_, err := pipeline.New().Run(context.Background(), pipeline.Input{RegistryFiles: []string{reg, bad}})
		assert.True(t, errors.IsSchema(err))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := pipeline.New().Run(ctx, pipeline.Input{RegistryFiles: []string{reg}})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRunLogsSummary(t *testing.T) {
	dir := t.TempDir()
	reg := registryFile(t, dir, "epraccur.csv", row{"A001", "OPEN", "A", "4"})

	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)
	_, err := pipeline.New().Run(ctx, pipeline.Input{RegistryFiles: []string{reg}})
	require.NoError(t, err)

	assert.True(t, tl.Contains("Reconciled practices"))
	assert.True(t, tl.Contains(`"emitted":1`))
	assert.True(t, tl.Contains("Read registry file"))
}

func TestWriteMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "practicemap.prom")
	stats := pipeline.Stats{
		RegistryFiles: []pipeline.FileStats{
			{Position: 0, Path: "epraccur.csv", Rows: 3},
			{Position: 1, Path: "epraccur.csv", Rows: 3},
		},
		Merged:  3,
		Joined:  4,
		Dropped: map[practice.Reason]int{practice.Inactive: 2},
		Emitted: 1,
	}

	require.NoError(t, pipeline.WriteMetrics(path, stats))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, `practicemap_registry_rows{file="epraccur.csv",position="0"} 3`)
	assert.Contains(t, text, `practicemap_registry_rows{file="epraccur.csv",position="1"} 3`)
	assert.Contains(t, text, `practicemap_dropped_organisations{reason="inactive"} 2`)
	assert.Contains(t, text, `practicemap_dropped_organisations{reason="incomplete"} 0`)
	assert.Contains(t, text, "practicemap_emitted_organisations 1")
	assert.Contains(t, text, "# TYPE practicemap_joined_organisations gauge")
}

func TestWriteMetricsBadPath(t *testing.T) {
	err := pipeline.WriteMetrics(filepath.Join(t.TempDir(), "missing", "dir", "x.prom"), pipeline.Stats{})
	assert.True(t, errors.IsIO(err))
}

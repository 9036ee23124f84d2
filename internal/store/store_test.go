package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutkit/analysis/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(t.TempDir())
	require.NoError(t, s.EnsureLayout())
	return s
}

func TestManifestRoundTrip(t *testing.T) {
	s := newTestStore(t)

	// Nothing ingested yet: no data, not an error.
	assert.Nil(t, s.LoadManifest(CategoryStand))

	manifest := models.Manifest{"a.json", "b.json"}
	require.NoError(t, s.SaveManifest(CategoryStand, manifest))
	assert.Equal(t, manifest, s.LoadManifest(CategoryStand))
}

func TestMalformedManifestMeansNoData(t *testing.T) {
	s := newTestStore(t)
	path := filepath.Join(s.CategoryDir(CategoryPit), "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"an array"}`), 0o644))

	assert.Nil(t, s.LoadManifest(CategoryPit))
}

func TestRecordFiles(t *testing.T) {
	s := newTestStore(t)

	_, ok := s.ReadRecordFile(CategoryStand, "x.json")
	assert.False(t, ok)

	require.NoError(t, s.WriteRecordFile(CategoryStand, "x.json", []byte(`{"a":1}`)))
	data, ok := s.ReadRecordFile(CategoryStand, "x.json")
	require.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(data))
}

func TestEventRoundTrip(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LoadEvent()
	require.Error(t, err)

	event := models.Event{Key: "2020orore", Name: "Clackamas", Year: 2020, StartDate: "2020-03-04"}
	require.NoError(t, s.SaveEvent(event))
	loaded, err := s.LoadEvent()
	require.NoError(t, err)
	assert.Equal(t, event, loaded)
}

func TestTeamNames(t *testing.T) {
	s := newTestStore(t)

	assert.Nil(t, s.LoadTeamNames())

	names := map[string]string{"1540": "Flaming Chickens", "254": "The Cheesy Poofs"}
	require.NoError(t, s.SaveTeamNames(names))
	assert.Equal(t, names, s.LoadTeamNames())
}

func TestAlliancesRoundTrip(t *testing.T) {
	s := newTestStore(t)

	assert.Nil(t, s.LoadAlliances())

	set := models.AllianceSet{
		1: {"1540", "254", "971"},
		8: {"118", "2056", "33"},
	}
	require.NoError(t, s.SaveAlliances(set))
	assert.Equal(t, set, s.LoadAlliances())
}

func TestPicklistRoundTrip(t *testing.T) {
	s := newTestStore(t)

	path, err := s.SavePicklist("First Pick!", []string{"1540", "254", "971"})
	require.NoError(t, err)
	assert.Equal(t, "FirstPick.csv", filepath.Base(path))

	title, teams, err := s.LoadPicklist(path)
	require.NoError(t, err)
	assert.Equal(t, "First Pick!", title)
	assert.Equal(t, []string{"1540", "254", "971"}, teams)
}

func TestWriteExportCSV(t *testing.T) {
	s := newTestStore(t)

	path, err := s.WriteExportCSV(
		[]string{"Team", "Cell Mean"},
		[][]string{{"254", "12.5"}, {"1540", "9"}},
	)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Team,Cell Mean\n254,12.5\n1540,9\n", string(data))
}

func TestLoadPrescout(t *testing.T) {
	s := newTestStore(t)

	// Missing file means no prescouting was done.
	records, err := s.LoadPrescout()
	require.NoError(t, err)
	assert.Nil(t, records)

	csv := "Team,Drivetrain,Weight\n1540,swerve,120\n254,tank,125\n"
	require.NoError(t, os.WriteFile(filepath.Join(s.Root(), "resources", "prescout.csv"), []byte(csv), 0o644))

	records, err = s.LoadPrescout()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "swerve", records["1540"]["Drivetrain"])
	assert.Equal(t, "125", records["254"]["Weight"])
}

func TestResetKeepsLayout(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.WriteRecordFile(CategoryStand, "x.json", []byte(`{}`)))

	require.NoError(t, s.Reset())

	_, ok := s.ReadRecordFile(CategoryStand, "x.json")
	assert.False(t, ok)
	// Layout is recreated so a new event can start immediately.
	info, err := os.Stat(s.CategoryDir(CategoryStand))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestArchiveAndRestore(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.WriteRecordFile(CategoryStand, "x.json", []byte(`{"a":1}`)))

	dest := filepath.Join(t.TempDir(), "archive")
	require.NoError(t, s.Archive(dest))
	require.NoError(t, s.Reset())
	require.NoError(t, s.Restore(dest))

	data, ok := s.ReadRecordFile(CategoryStand, "x.json")
	require.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(data))
}

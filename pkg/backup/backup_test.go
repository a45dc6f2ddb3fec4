package backup

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/latoulicious/anglerslog/pkg/database"
	"github.com/latoulicious/anglerslog/pkg/logbook"
	"github.com/latoulicious/anglerslog/pkg/logging"
	"github.com/latoulicious/anglerslog/pkg/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var exportedAt = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

func newTestLogbook(t *testing.T) *logbook.Logbook {
	t.Helper()

	lb, err := logbook.Open(logbook.Config{
		Database: database.Options{Driver: database.DriverSQLite, Path: filepath.Join(t.TempDir(), "logbook.db")},
		Name:     "Test Journal",
	}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = lb.Close() })
	return lb
}

func newTestExporter(lb *logbook.Logbook) *Exporter {
	e := NewExporter(lb, nil)
	e.now = func() time.Time { return exportedAt }
	return e
}

// populate fills lb with one of everything, including a catch with every
// optional field set and one with none
func populate(t *testing.T, lb *logbook.Logbook) {
	t.Helper()

	species := model.NewSpecies("Walleye")
	clarity := model.NewWaterClarity("Stained")
	methods := []model.FishingMethod{model.NewFishingMethod("Jigging"), model.NewFishingMethod("Trolling")}
	angler := model.NewAngler("Sam")

	bait := model.NewBait("Blade", model.NewBaitCategory("Metal"))
	bait.Color = "Silver"
	bait.Size = "1/2 oz"
	bait.Description = "Vibrating blade"
	bait.Type = model.BaitArtificial
	bait.AddPhoto(bait.NextPhotoName(bait.ID))

	location := model.NewLocation("Bay of Quinte")
	require.NoError(t, location.AddFishingSpot(model.NewFishingSpot("Big Bay", 44.1, -77.2)))
	require.NoError(t, location.AddFishingSpot(model.NewFishingSpot("Hay Bay", 44.2, -77.0)))

	require.NoError(t, lb.AddSpecies(species))
	require.NoError(t, lb.AddWaterClarity(clarity))
	for _, m := range methods {
		require.NoError(t, lb.AddFishingMethod(m))
	}
	require.NoError(t, lb.AddAngler(angler))
	require.NoError(t, lb.AddBait(bait))
	require.NoError(t, lb.AddLocation(location))
	// a category nothing uses still travels
	require.NoError(t, lb.AddBaitCategory(model.NewBaitCategory("Live")))

	full := model.NewCatch(time.Date(2024, 6, 1, 6, 30, 15, 250_000_000, time.UTC))
	full.SpeciesID = model.Ref(species.ID)
	full.BaitID = model.Ref(bait.ID)
	full.FishingSpotID = model.Ref(location.FishingSpots[1].ID)
	full.WaterClarityID = model.Ref(clarity.ID)
	full.IsFavorite = true
	full.Result = model.Kept
	full.Quantity = model.Ptr(3)
	full.Length = model.Ptr(61.5)
	full.Weight = model.Ptr(2.75)
	full.WaterDepth = model.Ptr(6.1)
	full.WaterTemperature = model.Ptr(17)
	full.Notes = "Evening bite"
	full.FishingMethodIDs = []uuid.UUID{methods[0].ID, methods[1].ID}
	full.Weather = &model.Weather{Temperature: 21, WindSpeed: 14, SkyConditions: "Overcast"}
	full.AddPhoto(full.NextPhotoName(full.ID))
	full.AddPhoto(full.NextPhotoName(full.ID))
	require.NoError(t, lb.AddCatch(full))

	bare := model.NewCatch(time.Date(2024, 6, 2, 19, 0, 0, 0, time.UTC))
	require.NoError(t, lb.AddCatch(bare))

	trip := model.NewTrip("Opening Weekend",
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))
	trip.Notes = "Cottage"
	trip.AnglerIDs = []uuid.UUID{angler.ID}
	trip.LocationIDs = []uuid.UUID{location.ID}
	trip.CatchIDs = []uuid.UUID{bare.ID, full.ID}
	require.NoError(t, lb.AddTrip(trip))
}

func TestExportImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestLogbook(t)
	populate(t, src)

	var buf bytes.Buffer
	require.NoError(t, newTestExporter(src).Export(ctx, &buf))

	dst := newTestLogbook(t)
	res, err := NewImporter(dst, nil).Import(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, "Test Journal", res.Journal)
	assert.Equal(t, 2, res.Created[KeyCatches])
	assert.Equal(t, 1, res.Created[KeyTrips])
	assert.Equal(t, 2, res.Created[KeyBaitCategories])
	assert.Equal(t, 2, res.Created[KeyFishingSpots])
	assert.Zero(t, res.TotalSkipped())

	want, err := newTestExporter(src).Build(ctx)
	require.NoError(t, err)
	got, err := newTestExporter(dst).Build(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// spot check the model side too
	stored, err := dst.GetCatchByDate(time.Date(2024, 6, 1, 6, 30, 15, 250_000_000, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, model.Kept, stored.Result)
	require.NotNil(t, stored.Weight)
	assert.Equal(t, 2.75, *stored.Weight)
	assert.Len(t, stored.FishingMethodIDs, 2)
	require.NotNil(t, stored.Weather)
	assert.Equal(t, "Overcast", stored.Weather.SkyConditions)
}

func TestExport_OmitsUnsetMeasurements(t *testing.T) {
	lb := newTestLogbook(t)
	require.NoError(t, lb.AddCatch(model.NewCatch(time.Date(2024, 5, 5, 5, 5, 0, 0, time.UTC))))

	var buf bytes.Buffer
	require.NoError(t, newTestExporter(lb).Export(context.Background(), &buf))

	out := buf.String()
	assert.Contains(t, out, `"date": "2024-05-05T05:05:00.000Z"`)
	for _, key := range []string{"fishQuantity", "fishLength", "fishWeight", "waterDepth", "waterTemperature", "weatherData"} {
		assert.NotContains(t, out, key)
	}
	assert.Contains(t, out, `"version": 1`)
}

func TestImport_ExistingEntitiesAreSkipped(t *testing.T) {
	ctx := context.Background()
	lb := newTestLogbook(t)
	populate(t, lb)

	var buf bytes.Buffer
	require.NoError(t, newTestExporter(lb).Export(ctx, &buf))

	before, err := lb.CatchCount()
	require.NoError(t, err)

	res, err := NewImporter(lb, nil).Import(ctx, &buf)
	require.NoError(t, err)

	assert.Zero(t, res.TotalCreated())
	assert.Equal(t, 2, res.Skipped[KeyCatches])
	assert.Equal(t, 1, res.Skipped[KeyTrips])
	assert.Equal(t, 1, res.Skipped[KeyBaits])
	assert.Equal(t, 2, res.Skipped[KeyFishingSpots])

	after, err := lb.CatchCount()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

const legacyDocument = `{
	"journal": "Old Journal",
	"speciesList": ["Walleye"],
	"baits": [{"name": "Jig", "baitCategory": "", "baitType": 0}],
	"catches": [
		{
			"date": "06-01-2024_6-30_AM",
			"isFavorite": 1,
			"fishSpecies": "Walleye",
			"fishResult": 1,
			"fishQuantity": -1,
			"fishLength": -1,
			"fishWeight": 2,
			"fishOunces": 8,
			"waterDepth": "4.5",
			"waterTemperature": -1,
			"waterClarity": "",
			"baitUsed": "Jig",
			"baitCategory": "",
			"location": "Bay",
			"fishingSpot": "Point",
			"notes": "",
			"fishingMethodNames": ["Trolling"],
			"journal": "Old Journal",
			"weatherData": {"temperature": 18, "windSpeed": "12.0", "skyConditions": "Overcast"}
		},
		{
			"date": "06-02-2024_7-15_PM",
			"fishSpecies": "Perch",
			"weatherData": {}
		}
	]
}`

func TestImport_LegacyDocument(t *testing.T) {
	lb := newTestLogbook(t)

	res, err := NewImporter(lb, nil).Import(context.Background(), strings.NewReader(legacyDocument))
	require.NoError(t, err)

	assert.Equal(t, "Old Journal", res.Journal)
	assert.Equal(t, 2, res.Created[KeySpecies])
	assert.Equal(t, 1, res.Created[KeyBaitCategories])
	assert.Equal(t, 1, res.Created[KeyBaits])
	assert.Equal(t, 1, res.Created[KeyLocations])
	assert.Equal(t, 1, res.Created[KeyFishingSpots])
	assert.Equal(t, 1, res.Created[KeyFishingMethods])
	assert.Equal(t, 2, res.Created[KeyCatches])

	first, err := lb.GetCatchByDate(time.Date(2024, 6, 1, 6, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, first.IsFavorite)
	assert.Equal(t, model.Kept, first.Result)
	assert.Nil(t, first.Quantity)
	assert.Nil(t, first.Length)
	assert.Nil(t, first.WaterTemperature)
	require.NotNil(t, first.Weight)
	assert.Equal(t, 2.5, *first.Weight)
	require.NotNil(t, first.WaterDepth)
	assert.Equal(t, 4.5, *first.WaterDepth)
	assert.Equal(t, &model.Weather{Temperature: 18, WindSpeed: 12, SkyConditions: "Overcast"}, first.Weather)

	require.True(t, first.BaitID.Valid)
	bait, err := lb.GetBait(first.BaitID.UUID)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaitCategory, bait.Category.Name)

	require.True(t, first.FishingSpotID.Valid)
	spot, err := lb.GetFishingSpot(first.FishingSpotID.UUID)
	require.NoError(t, err)
	assert.Equal(t, "Point", spot.Name)
	location, err := lb.GetLocation(spot.LocationID)
	require.NoError(t, err)
	assert.Equal(t, "Bay", location.Name)

	second, err := lb.GetCatchByDate(time.Date(2024, 6, 2, 19, 15, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, second.Weather)
	assert.Nil(t, second.Quantity)
}

func TestImport_ZeroQuantityCountsAsOne(t *testing.T) {
	lb := newTestLogbook(t)

	doc := `{"speciesList": ["Perch"], "catches": [
		{"date": "2024-06-01T10:00:00.000Z", "fishSpecies": "Perch", "fishQuantity": 0},
		{"date": "2024-06-01T11:00:00.000Z", "fishSpecies": "Perch", "fishQuantity": 6}
	]}`
	_, err := NewImporter(lb, nil).Import(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)

	c, err := lb.GetCatchByDate(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, c.Quantity)

	perch, err := lb.GetSpeciesByName("Perch")
	require.NoError(t, err)
	n, err := lb.SpeciesCatchQuantity(perch.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestImport_FailureRollsBackWholeDocument(t *testing.T) {
	lb := newTestLogbook(t)

	core, logs := observer.New(zapcore.InfoLevel)
	importer := NewImporter(lb, logging.NewZapLoggerFrom(zap.New(core), "backup"))

	doc := `{
		"speciesList": ["Pike"],
		"catches": [{"date": "2024-06-01T10:00:00.000Z", "fishSpecies": "Pike"}],
		"trips": [{"name": "Missing", "startDate": "2024-06-01T00:00:00.000Z",
			"endDate": "2024-06-02T00:00:00.000Z", "catches": ["2024-06-09T10:00:00.000Z"]}]
	}`
	_, err := importer.Import(context.Background(), strings.NewReader(doc))
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, KeyTrips, perr.Entity)
	assert.Equal(t, 0, perr.Index)
	assert.Equal(t, "catches", perr.Field)
	assert.ErrorIs(t, err, logbook.ErrNotFound)

	species, err := lb.SpeciesCount()
	require.NoError(t, err)
	assert.Zero(t, species)
	catches, err := lb.CatchCount()
	require.NoError(t, err)
	assert.Zero(t, catches)

	assert.Equal(t, 1, logs.FilterMessageSnippet("Import rolled back").Len())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		entity string
		index  int
		field  string
		target error
	}{
		{"not json", `{"catches": [`, "document", -1, "", ErrWrongType},
		{"missing date", `{"catches": [{"fishSpecies": "Pike"}]}`, KeyCatches, 0, "date", ErrMissingField},
		{"bad quantity", `{"catches": [{"date": "2024-06-01T10:00:00.000Z", "fishQuantity": "lots"}]}`, KeyCatches, 0, "fishQuantity", ErrWrongType},
		{"spot without location", `{"catches": [{"date": "2024-06-01T10:00:00.000Z", "fishingSpot": "Reef"}]}`, KeyCatches, 0, "location", ErrMissingField},
		{"catches not an array", `{"catches": {"date": "x"}}`, "document", -1, KeyCatches, ErrWrongType},
		{"unknown bait type", `{"baits": [{"name": "A"}, {"name": "B", "baitType": 7}]}`, KeyBaits, 1, "baitType", ErrWrongType},
		{"nameless species", `{"speciesList": [{"name": ""}]}`, KeySpecies, 0, "name", ErrMissingField},
		{"newer version", `{"journal": {"name": "x", "version": 99}}`, KeyJournal, -1, "version", ErrUnsupportedVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			require.Error(t, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr), "got %v", err)
			assert.Equal(t, tt.entity, perr.Entity)
			assert.Equal(t, tt.index, perr.Index)
			assert.Equal(t, tt.field, perr.Field)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestParseError_Message(t *testing.T) {
	err := &ParseError{Entity: KeyCatches, Index: 3, Field: "date", Err: ErrMissingField}
	assert.Equal(t, "parse catches[3].date: missing required field", err.Error())

	err = &ParseError{Entity: "document", Index: -1, Err: ErrWrongType}
	assert.Equal(t, "parse document: wrong value type", err.Error())
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 6, 1, 18, 5, 0, 0, time.UTC)

	for _, s := range []string{
		"2024-06-01T18:05:00.000Z",
		"2024-06-01T20:05:00.000+02:00",
		"2024-06-01T18:05:00Z",
		"06-01-2024_6-05_PM",
	} {
		got, err := ParseDate(s)
		require.NoError(t, err, s)
		assert.True(t, want.Equal(got), s)
		assert.Equal(t, time.UTC, got.Location(), s)
	}

	_, err := ParseDate("June 1st")
	assert.Error(t, err)

	assert.Equal(t, "2024-06-01T18:05:00.000Z", FormatDate(want))
}

func TestFileTransfer_LogsFile(t *testing.T) {
	src := newTestLogbook(t)
	populate(t, src)

	core, logs := observer.New(zapcore.InfoLevel)
	dir := t.TempDir()
	logger := logging.NewBackupLogger(logging.NewZapLoggerFrom(zap.New(core), "backup"), dir)
	path := filepath.Join(dir, "journal.json")

	require.NoError(t, NewExporter(src, logger).ExportFile(context.Background(), path))
	written := logs.FilterMessageSnippet("Export file written").All()
	require.Len(t, written, 1)
	assert.Equal(t, path, written[0].ContextMap()["file"])
	assert.Equal(t, dir, written[0].ContextMap()["destination"])

	_, err := NewImporter(newTestLogbook(t), logger).ImportFile(context.Background(), path)
	require.NoError(t, err)
	applied := logs.FilterMessageSnippet("Import file applied").All()
	require.Len(t, applied, 1)
	assert.Equal(t, path, applied[0].ContextMap()["file"])
}

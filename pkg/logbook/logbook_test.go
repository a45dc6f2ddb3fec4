package logbook

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/latoulicious/anglerslog/pkg/database"
	"github.com/latoulicious/anglerslog/pkg/database/schema"
	"github.com/latoulicious/anglerslog/pkg/logging"
	"github.com/latoulicious/anglerslog/pkg/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestLogbook(t *testing.T) *Logbook {
	t.Helper()

	lb, err := Open(Config{
		Database: database.Options{Driver: database.DriverSQLite, Path: filepath.Join(t.TempDir(), "logbook.db")},
		Name:     "Test Journal",
	}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = lb.Close() })
	return lb
}

var baseDate = time.Date(2024, 6, 1, 6, 30, 15, 250_000_000, time.UTC)

// fixture is a small logbook with one of everything a catch can reference
type fixture struct {
	species  model.Species
	clarity  model.WaterClarity
	methods  []model.FishingMethod
	bait     model.Bait
	location model.Location
}

func newFixture(t *testing.T, lb *Logbook) fixture {
	t.Helper()

	f := fixture{
		species: model.NewSpecies("Smallmouth Bass"),
		clarity: model.NewWaterClarity("Clear"),
		methods: []model.FishingMethod{model.NewFishingMethod("Casting"), model.NewFishingMethod("Shore")},
		bait:    model.NewBait("Tube", model.NewBaitCategory("Soft Plastic")),
	}
	f.bait.Color = "Green Pumpkin"
	f.bait.Type = model.BaitArtificial

	f.location = model.NewLocation("Lake Erie")
	require.NoError(t, f.location.AddFishingSpot(model.NewFishingSpot("North Reef", 41.9, -82.5)))
	require.NoError(t, f.location.AddFishingSpot(model.NewFishingSpot("South Shoal", 41.7, -82.6)))

	require.NoError(t, lb.AddSpecies(f.species))
	require.NoError(t, lb.AddWaterClarity(f.clarity))
	for _, m := range f.methods {
		require.NoError(t, lb.AddFishingMethod(m))
	}
	require.NoError(t, lb.AddBait(f.bait))
	require.NoError(t, lb.AddLocation(f.location))
	return f
}

func (f fixture) fullCatch(date time.Time) model.Catch {
	c := model.NewCatch(date)
	c.SpeciesID = model.Ref(f.species.ID)
	c.BaitID = model.Ref(f.bait.ID)
	c.FishingSpotID = model.Ref(f.location.FishingSpots[0].ID)
	c.WaterClarityID = model.Ref(f.clarity.ID)
	c.IsFavorite = true
	c.Result = model.Kept
	c.Quantity = model.Ptr(2)
	c.Length = model.Ptr(45.5)
	c.Weight = model.Ptr(1.8)
	c.WaterDepth = model.Ptr(3.5)
	c.WaterTemperature = model.Ptr(19)
	c.Notes = "Caught on the drop-off"
	c.FishingMethodIDs = []uuid.UUID{f.methods[0].ID, f.methods[1].ID}
	c.Weather = &model.Weather{Temperature: 22, WindSpeed: 12, SkyConditions: "Partly Cloudy"}
	c.AddPhoto(c.NextPhotoName(c.ID))
	c.AddPhoto(c.NextPhotoName(c.ID))
	return c
}

func TestAddThenGetReturnsEqualEntities(t *testing.T) {
	lb := newTestLogbook(t)
	f := newFixture(t, lb)

	species, err := lb.GetSpecies(f.species.ID)
	require.NoError(t, err)
	assert.Equal(t, f.species, species)

	bait, err := lb.GetBait(f.bait.ID)
	require.NoError(t, err)
	assert.Equal(t, f.bait, bait)

	location, err := lb.GetLocation(f.location.ID)
	require.NoError(t, err)
	assert.Equal(t, f.location, location)

	c := f.fullCatch(baseDate)
	require.NoError(t, lb.AddCatch(c))
	stored, err := lb.GetCatch(c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, stored)

	trip := model.NewTrip("Opening Weekend", baseDate.Add(-time.Hour), baseDate.Add(48*time.Hour))
	angler := model.NewAngler("Cohen")
	require.NoError(t, lb.AddAngler(angler))
	trip.AnglerIDs = []uuid.UUID{angler.ID}
	trip.LocationIDs = []uuid.UUID{f.location.ID}
	trip.CatchIDs = []uuid.UUID{c.ID}
	trip.Notes = "Windy"
	require.NoError(t, lb.AddTrip(trip))

	storedTrip, err := lb.GetTrip(trip.ID)
	require.NoError(t, err)
	assert.Equal(t, trip, storedTrip)
}

func TestAddCatch_DuplicateDateRejected(t *testing.T) {
	lb := newTestLogbook(t)

	require.NoError(t, lb.AddCatch(model.NewCatch(baseDate)))
	err := lb.AddCatch(model.NewCatch(baseDate))
	assert.ErrorIs(t, err, ErrDuplicate)

	n, err := lb.CatchCount()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	exists, err := lb.CatchExists(baseDate)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAddSpecies_DuplicateNameRejected(t *testing.T) {
	lb := newTestLogbook(t)

	require.NoError(t, lb.AddSpecies(model.NewSpecies("Walleye")))
	assert.ErrorIs(t, lb.AddSpecies(model.NewSpecies("Walleye")), ErrDuplicate)
	// names are case sensitive
	require.NoError(t, lb.AddSpecies(model.NewSpecies("walleye")))

	n, err := lb.SpeciesCount()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestCatchClone(t *testing.T) {
	lb := newTestLogbook(t)
	f := newFixture(t, lb)

	c := f.fullCatch(baseDate)
	require.NoError(t, lb.AddCatch(c))

	fresh := c.Clone(false)
	assert.NotEqual(t, c.ID, fresh.ID)
	assert.True(t, c.Date.Equal(fresh.Date))
	// same date, so the copy cannot be added until the date moves
	assert.ErrorIs(t, lb.AddCatch(fresh), ErrDuplicate)

	edit := c.Clone(true)
	assert.Equal(t, c.ID, edit.ID)
	edit.Notes = "Edited"
	edit.Quantity = nil
	edit.Weather = nil
	require.NoError(t, lb.EditCatch(edit.ID, edit))

	stored, err := lb.GetCatch(c.ID)
	require.NoError(t, err)
	assert.Equal(t, edit, stored)
}

func TestEditCatch_DateCollision(t *testing.T) {
	lb := newTestLogbook(t)

	first := model.NewCatch(baseDate)
	second := model.NewCatch(baseDate.Add(time.Hour))
	require.NoError(t, lb.AddCatch(first))
	require.NoError(t, lb.AddCatch(second))

	moved := second.Clone(true)
	moved.SetDate(baseDate)
	assert.ErrorIs(t, lb.EditCatch(second.ID, moved), ErrDuplicate)

	// editing a catch onto its own date is fine
	require.NoError(t, lb.EditCatch(first.ID, first))

	assert.ErrorIs(t, lb.EditCatch(uuid.New(), model.NewCatch(baseDate.Add(5*time.Hour))), ErrNotFound)
}

func TestRemoveCatch_RemovesPhotosWeatherAndLinks(t *testing.T) {
	lb := newTestLogbook(t)
	f := newFixture(t, lb)

	c := f.fullCatch(baseDate)
	require.NoError(t, lb.AddCatch(c))

	trip := model.NewTrip("Evening", baseDate, baseDate.Add(time.Hour))
	trip.CatchIDs = []uuid.UUID{c.ID}
	require.NoError(t, lb.AddTrip(trip))

	require.NoError(t, lb.RemoveCatch(c.ID))

	_, err := lb.GetCatchWeather(c.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = lb.GetCatch(c.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	photos, err := lb.db.Count(schema.CatchPhotoTable, "", nil)
	require.NoError(t, err)
	assert.Zero(t, photos)

	methods, err := lb.db.Count(schema.UsedFishingMethodTable, "", nil)
	require.NoError(t, err)
	assert.Zero(t, methods)

	storedTrip, err := lb.GetTrip(trip.ID)
	require.NoError(t, err)
	assert.Empty(t, storedTrip.CatchIDs)

	assert.ErrorIs(t, lb.RemoveCatch(c.ID), ErrNotFound)
}

func TestCatchQuantities_UnsetCountsAsOne(t *testing.T) {
	lb := newTestLogbook(t)
	f := newFixture(t, lb)

	trip := model.NewTrip("Weekend", baseDate, baseDate.Add(72*time.Hour))
	for i, q := range []*int{model.Ptr(5), nil, model.Ptr(3)} {
		c := model.NewCatch(baseDate.Add(time.Duration(i) * time.Hour))
		c.Quantity = q
		c.SpeciesID = model.Ref(f.species.ID)
		c.BaitID = model.Ref(f.bait.ID)
		c.FishingSpotID = model.Ref(f.location.FishingSpots[1].ID)
		require.NoError(t, lb.AddCatch(c))
		trip.CatchIDs = append(trip.CatchIDs, c.ID)
	}
	trip.LocationIDs = []uuid.UUID{f.location.ID}
	require.NoError(t, lb.AddTrip(trip))

	for name, total := range map[string]func() (int, error){
		"species":       func() (int, error) { return lb.SpeciesCatchQuantity(f.species.ID) },
		"bait":          func() (int, error) { return lb.BaitCatchQuantity(f.bait.ID) },
		"location":      func() (int, error) { return lb.LocationCatchQuantity(f.location.ID) },
		"fishing spot":  func() (int, error) { return lb.FishingSpotCatchQuantity(f.location.FishingSpots[1].ID) },
		"trip":          func() (int, error) { return lb.TripCatchQuantity(trip.ID) },
		"trip location": func() (int, error) { return lb.TripLocationCatchQuantity(trip.ID, f.location.ID) },
	} {
		n, err := total()
		require.NoError(t, err, name)
		assert.Equal(t, 9, n, name)
	}

	n, err := lb.FishingSpotCatchQuantity(f.location.FishingSpots[0].ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCatchQuantities_NonPositiveCountsAsOne(t *testing.T) {
	lb := newTestLogbook(t)

	for i, tc := range []struct {
		species    string
		quantities []int
		want       int
	}{
		{"Perch", []int{5, -1, 3}, 9},
		{"Bluegill", []int{0}, 1},
	} {
		s := model.NewSpecies(tc.species)
		require.NoError(t, lb.AddSpecies(s))

		var ids []uuid.UUID
		for j, q := range tc.quantities {
			c := model.NewCatch(baseDate.Add(time.Duration(i*10+j) * time.Hour))
			c.SpeciesID = model.Ref(s.ID)
			c.Quantity = model.Ptr(q)
			require.NoError(t, lb.AddCatch(c))
			ids = append(ids, c.ID)
		}

		n, err := lb.SpeciesCatchQuantity(s.ID)
		require.NoError(t, err)
		assert.Equal(t, tc.want, n, tc.species)

		// an edit cannot store a non-positive count either
		c, err := lb.GetCatch(ids[0])
		require.NoError(t, err)
		c.Quantity = model.Ptr(-1)
		require.NoError(t, lb.EditCatch(c.ID, c))
		c, err = lb.GetCatch(ids[0])
		require.NoError(t, err)
		assert.Nil(t, c.Quantity, tc.species)
	}
}

func TestEditBait_CollisionLeavesStoredBaitUnchanged(t *testing.T) {
	lb := newTestLogbook(t)

	jigs := model.NewBaitCategory("Jig")
	spoons := model.NewBaitCategory("Spoon")
	require.NoError(t, lb.AddBaitCategory(jigs))
	require.NoError(t, lb.AddBaitCategory(spoons))

	existing := model.NewBait("Gold", spoons)
	target := model.NewBait("Marabou", jigs)
	target.Color = "White"
	require.NoError(t, lb.AddBait(existing))
	require.NoError(t, lb.AddBait(target))

	edit := target.Clone(true)
	edit.Name = "Gold"
	edit.Category = spoons
	edit.Color = "Chartreuse"
	assert.ErrorIs(t, lb.EditBait(target.ID, edit), ErrDuplicate)

	stored, err := lb.GetBait(target.ID)
	require.NoError(t, err)
	assert.Equal(t, target, stored)

	// same name in another category is a different bait
	edit.Category = jigs
	require.NoError(t, lb.EditBait(target.ID, edit))
}

func TestAddBait_Categories(t *testing.T) {
	lb := newTestLogbook(t)

	assert.ErrorIs(t, lb.AddBait(model.Bait{UserDefine: model.NewUserDefine("Nameless")}), ErrMissingCategory)

	require.NoError(t, lb.AddBait(model.NewBait("Minnow", model.NewBaitCategory("Live"))))
	exists, err := lb.BaitCategoryExists("Live")
	require.NoError(t, err)
	assert.True(t, exists)

	// a category known by name is reused, not duplicated
	require.NoError(t, lb.AddBait(model.NewBait("Leech", model.NewBaitCategory("Live"))))
	n, err := lb.BaitCategoryCount()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.ErrorIs(t, lb.AddBait(model.NewBait("Minnow", model.NewBaitCategory("Live"))), ErrDuplicate)

	bait, err := lb.GetBaitByName("Leech", "Live")
	require.NoError(t, err)
	assert.Equal(t, "Live - Leech", bait.DisplayName())
}

func TestRemove_InUseEntitiesAreKept(t *testing.T) {
	lb := newTestLogbook(t)
	f := newFixture(t, lb)

	c := f.fullCatch(baseDate)
	require.NoError(t, lb.AddCatch(c))

	assert.ErrorIs(t, lb.RemoveSpecies(f.species.ID), ErrInUse)
	assert.ErrorIs(t, lb.RemoveBait(f.bait.ID), ErrInUse)
	assert.ErrorIs(t, lb.RemoveBaitCategory(f.bait.Category.ID), ErrInUse)
	assert.ErrorIs(t, lb.RemoveFishingMethod(f.methods[0].ID), ErrInUse)

	// the location's first spot is used, so neither spot nor location may go
	assert.ErrorIs(t, lb.RemoveLocation(f.location.ID), ErrInUse)
	n, err := lb.FishingSpotCount()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, lb.RemoveCatch(c.ID))
	require.NoError(t, lb.RemoveSpecies(f.species.ID))
	require.NoError(t, lb.RemoveBait(f.bait.ID))
	require.NoError(t, lb.RemoveLocation(f.location.ID))

	n, err = lb.FishingSpotCount()
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.ErrorIs(t, lb.RemoveSpecies(f.species.ID), ErrNotFound)
}

func TestEditLocation_SyncsFishingSpots(t *testing.T) {
	lb := newTestLogbook(t)
	f := newFixture(t, lb)

	edit := f.location.Clone(true)
	edit.Name = "Lake Erie West"
	require.True(t, edit.RemoveFishingSpot("South Shoal"))
	edit.FishingSpot("North Reef").Latitude = 42.0
	require.NoError(t, edit.AddFishingSpot(model.NewFishingSpot("Bass Islands", 41.6, -82.8)))
	require.NoError(t, lb.EditLocation(f.location.ID, edit))

	stored, err := lb.GetLocation(f.location.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lake Erie West", stored.Name)
	require.Len(t, stored.FishingSpots, 2)
	assert.Equal(t, "Bass Islands", stored.FishingSpots[0].Name)
	assert.Equal(t, "North Reef", stored.FishingSpots[1].Name)
	assert.InDelta(t, 42.0, stored.FishingSpots[1].Latitude, 1e-9)

	other := model.NewLocation("Lake Erie")
	require.NoError(t, lb.AddLocation(other))
	assert.ErrorIs(t, lb.EditLocation(other.ID, stored.Clone(true)), ErrDuplicate)

	require.NoError(t, lb.AddFishingSpot(other.ID, model.NewFishingSpot("Pier", 0, 0)))
	assert.ErrorIs(t, lb.AddFishingSpot(other.ID, model.NewFishingSpot("Pier", 1, 1)), ErrDuplicate)
}

func TestEditLocation_SpotsWithoutIDs(t *testing.T) {
	lb := newTestLogbook(t)

	loc := model.NewLocation("Rice Lake")
	loc.FishingSpots = []model.FishingSpot{
		{UserDefine: model.UserDefine{Name: "Weed Bed"}},
		{UserDefine: model.UserDefine{Name: "Drop Off"}},
	}
	require.NoError(t, lb.AddLocation(loc))

	edit := loc
	edit.FishingSpots = append([]model.FishingSpot{},
		model.FishingSpot{UserDefine: model.UserDefine{Name: "Island"}},
		model.FishingSpot{UserDefine: model.UserDefine{Name: "Narrows"}},
	)
	require.NoError(t, lb.EditLocation(loc.ID, edit))

	stored, err := lb.GetLocation(loc.ID)
	require.NoError(t, err)
	require.Len(t, stored.FishingSpots, 2)
	assert.Equal(t, "Island", stored.FishingSpots[0].Name)
	assert.Equal(t, "Narrows", stored.FishingSpots[1].Name)
	assert.NotEqual(t, stored.FishingSpots[0].ID, stored.FishingSpots[1].ID)
	assert.NotEqual(t, uuid.Nil, stored.FishingSpots[0].ID)
}

func TestListOrdering(t *testing.T) {
	lb := newTestLogbook(t)

	for _, name := range []string{"Walleye", "Bass", "Perch"} {
		require.NoError(t, lb.AddSpecies(model.NewSpecies(name)))
	}
	species, err := lb.ListSpecies()
	require.NoError(t, err)
	require.Len(t, species, 3)
	assert.Equal(t, []string{"Bass", "Perch", "Walleye"}, []string{species[0].Name, species[1].Name, species[2].Name})

	for i := 0; i < 3; i++ {
		require.NoError(t, lb.AddCatch(model.NewCatch(baseDate.Add(time.Duration(i)*time.Hour))))
	}
	catches, err := lb.ListCatches()
	require.NoError(t, err)
	require.Len(t, catches, 3)
	assert.True(t, catches[0].Date.After(catches[1].Date))
	assert.True(t, catches[1].Date.After(catches[2].Date))

	require.NoError(t, lb.AddTrip(model.NewTrip("Early", baseDate, baseDate.Add(time.Hour))))
	require.NoError(t, lb.AddTrip(model.NewTrip("Late", baseDate.Add(24*time.Hour), baseDate.Add(25*time.Hour))))
	trips, err := lb.ListTrips()
	require.NoError(t, err)
	require.Len(t, trips, 2)
	assert.Equal(t, "Late", trips[0].Name)
}

func TestWeather(t *testing.T) {
	lb := newTestLogbook(t)

	c := model.NewCatch(baseDate)
	require.NoError(t, lb.AddCatch(c))

	_, err := lb.GetCatchWeather(c.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, lb.SetCatchWeather(c.ID, model.Weather{Temperature: 10, WindSpeed: 4, SkyConditions: "Fog"}))
	require.NoError(t, lb.SetCatchWeather(c.ID, model.Weather{Temperature: 14, WindSpeed: 8, SkyConditions: "Sun"}))

	w, err := lb.GetCatchWeather(c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Weather{Temperature: 14, WindSpeed: 8, SkyConditions: "Sun"}, w)

	require.NoError(t, lb.RemoveCatchWeather(c.ID))
	require.NoError(t, lb.RemoveCatchWeather(c.ID))
	_, err = lb.GetCatchWeather(c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransaction_RollsBackEverything(t *testing.T) {
	lb := newTestLogbook(t)

	err := lb.Transaction(func(tx *Logbook) error {
		if err := tx.AddSpecies(model.NewSpecies("Pike")); err != nil {
			return err
		}
		if err := tx.AddCatch(model.NewCatch(baseDate)); err != nil {
			return err
		}
		return errors.New("abort")
	})
	assert.EqualError(t, err, "abort")

	n, err := lb.SpeciesCount()
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = lb.CatchCount()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLongestAndHeaviestCatch(t *testing.T) {
	lb := newTestLogbook(t)

	pike := model.NewSpecies("Pike")
	perch := model.NewSpecies("Perch")
	require.NoError(t, lb.AddSpecies(pike))
	require.NoError(t, lb.AddSpecies(perch))

	_, err := lb.LongestCatch(uuid.NullUUID{})
	assert.ErrorIs(t, err, ErrNotFound)

	add := func(offset time.Duration, species model.Species, length, weight float64) model.Catch {
		c := model.NewCatch(baseDate.Add(offset))
		c.SpeciesID = model.Ref(species.ID)
		c.Length = model.Ptr(length)
		c.Weight = model.Ptr(weight)
		require.NoError(t, lb.AddCatch(c))
		return c
	}
	longPike := add(0, pike, 90, 4.0)
	heavyPike := add(time.Hour, pike, 80, 5.5)
	bigPerch := add(2*time.Hour, perch, 30, 0.6)

	longest, err := lb.LongestCatch(uuid.NullUUID{})
	require.NoError(t, err)
	assert.Equal(t, longPike.ID, longest.ID)

	heaviest, err := lb.HeaviestCatch(model.Ref(pike.ID))
	require.NoError(t, err)
	assert.Equal(t, heavyPike.ID, heaviest.ID)

	longestPerch, err := lb.LongestCatch(model.Ref(perch.ID))
	require.NoError(t, err)
	assert.Equal(t, bigPerch.ID, longestPerch.ID)

	stats, err := lb.SpeciesStats()
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "Pike", stats[0].Species.Name)
	assert.Equal(t, 2, stats[0].Quantity)
	assert.Equal(t, 2, stats[0].Catches)
	assert.Equal(t, 1, stats[1].Quantity)
}

func TestPhotosHousekeeping(t *testing.T) {
	lb := newTestLogbook(t)

	_, err := lb.RandomCatchPhoto()
	assert.ErrorIs(t, err, ErrNotFound)

	c := model.NewCatch(baseDate)
	c.AddPhoto("IMG_a.jpg")
	require.NoError(t, lb.AddCatch(c))

	photo, err := lb.RandomCatchPhoto()
	require.NoError(t, err)
	assert.Equal(t, "IMG_a.jpg", photo)

	require.NoError(t, lb.db.Insert(schema.CatchPhotoTable, database.Values{
		schema.PhotoColUserDefineID: uuid.NewString(),
		schema.PhotoColName:         "IMG_orphan.jpg",
	}))
	require.NoError(t, lb.db.Insert(schema.BaitPhotoTable, database.Values{
		schema.PhotoColUserDefineID: uuid.NewString(),
		schema.PhotoColName:         "IMG_orphan_bait.jpg",
	}))

	n, err := lb.CleanOrphanPhotos()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	stored, err := lb.GetCatch(c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"IMG_a.jpg"}, stored.Photos)
}

func TestPrimitiveEditAndLookup(t *testing.T) {
	lb := newTestLogbook(t)

	clearWater := model.NewWaterClarity("Clear")
	murky := model.NewWaterClarity("Murky")
	require.NoError(t, lb.AddWaterClarity(clearWater))
	require.NoError(t, lb.AddWaterClarity(murky))

	edit := clearWater.Clone(true)
	edit.Name = "Murky"
	assert.ErrorIs(t, lb.EditWaterClarity(clearWater.ID, edit), ErrDuplicate)

	edit.Name = "Crystal"
	require.NoError(t, lb.EditWaterClarity(clearWater.ID, edit))

	// edits overwrite by id even if the new value carries another id
	renamed := model.NewWaterClarity("Stained")
	require.NoError(t, lb.EditWaterClarity(murky.ID, renamed))
	stored, err := lb.GetWaterClarityByName("Stained")
	require.NoError(t, err)
	assert.Equal(t, murky.ID, stored.ID)

	_, err = lb.GetWaterClarityByName("Clear")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, lb.EditWaterClarity(uuid.New(), model.NewWaterClarity("Ghost")), ErrNotFound)
}

func TestLogbookLogger_ScopesEntityAndOperation(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := logging.NewZapLoggerFrom(zap.New(core), "app")
	lb := newTestLogbook(t).WithLogger(logging.NewLogbookLogger(base, "Test Journal"))

	require.NoError(t, lb.AddBait(model.NewBait("Spinner", model.NewBaitCategory("Inline"))))
	created := logs.FilterMessageSnippet("Created bait category").All()
	require.Len(t, created, 1)
	assert.Equal(t, "bait category", created[0].ContextMap()["entity"])
	assert.Equal(t, "Test Journal", created[0].ContextMap()["journal"])

	carp := model.NewSpecies("Carp")
	require.NoError(t, lb.AddSpecies(carp))
	require.NoError(t, lb.RemoveSpecies(carp.ID))
	removed := logs.FilterMessageSnippet("Removed species").All()
	require.Len(t, removed, 1)
	fields := removed[0].ContextMap()
	assert.Equal(t, "species", fields["entity"])
	assert.Equal(t, "remove", fields["operation"])
}

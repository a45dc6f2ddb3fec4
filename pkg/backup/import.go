package backup

import (
	"context"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/latoulicious/anglerslog/pkg/logbook"
	"github.com/latoulicious/anglerslog/pkg/logging"
	"github.com/latoulicious/anglerslog/pkg/model"
	"github.com/pkg/errors"
)

// Result counts what an import did, keyed by the document's entity keys
type Result struct {
	Journal string
	Created map[string]int
	Skipped map[string]int
}

func newResult(journal string) *Result {
	return &Result{Journal: journal, Created: map[string]int{}, Skipped: map[string]int{}}
}

// TotalCreated sums Created over every entity kind
func (r *Result) TotalCreated() int {
	n := 0
	for _, c := range r.Created {
		n += c
	}
	return n
}

// TotalSkipped sums Skipped over every entity kind
func (r *Result) TotalSkipped() int {
	n := 0
	for _, c := range r.Skipped {
		n += c
	}
	return n
}

// Importer loads documents into a logbook
type Importer struct {
	logbook *logbook.Logbook
	logger  logging.Logger
}

// NewImporter creates an importer writing into lb
func NewImporter(lb *logbook.Logbook, logger logging.Logger) *Importer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Importer{logbook: lb, logger: logger}
}

// Import parses r and applies it. Entities whose unique key is already
// taken are skipped; references to entities the logbook lacks create them.
// The whole document is applied in one transaction: on any error nothing
// is kept.
func (i *Importer) Import(ctx context.Context, r io.Reader) (*Result, error) {
	doc, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return i.Apply(ctx, doc)
}

// ImportFile imports the document stored at path
func (i *Importer) ImportFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	res, err := i.Import(ctx, f)
	if err != nil {
		return nil, errors.WithMessagef(err, "import %s", path)
	}
	fileLogger(i.logger, path).Info("Import file applied", map[string]interface{}{
		"created": res.TotalCreated(),
	})
	return res, nil
}

// Apply writes an already parsed document into the logbook
func (i *Importer) Apply(ctx context.Context, doc *Document) (*Result, error) {
	res := newResult(doc.Journal.Name)

	err := i.logbook.WithContext(ctx).Transaction(func(tx *logbook.Logbook) error {
		return newApplier(tx, res).apply(doc)
	})
	if err != nil {
		i.logger.Error("Import rolled back", err, map[string]interface{}{
			"journal": doc.Journal.Name,
		})
		return nil, err
	}

	i.logger.Info("Imported logbook", map[string]interface{}{
		"journal": doc.Journal.Name,
		"created": res.TotalCreated(),
		"skipped": res.TotalSkipped(),
	})
	return res, nil
}

// applier holds the name lookups for one import transaction
type applier struct {
	tx  *logbook.Logbook
	res *Result

	species    *resolver
	categories *resolver
	clarities  *resolver
	methods    *resolver
	anglers    *resolver
	locations  *resolver

	baits map[[2]string]uuid.UUID
	spots map[[2]string]uuid.UUID
}

func newApplier(tx *logbook.Logbook, res *Result) *applier {
	return &applier{
		tx:  tx,
		res: res,
		species: primitiveResolver(KeySpecies, res, tx.GetSpeciesByName, tx.AddSpecies, model.NewSpecies,
			func(s model.Species) uuid.UUID { return s.ID }),
		categories: primitiveResolver(KeyBaitCategories, res, tx.GetBaitCategoryByName, tx.AddBaitCategory, model.NewBaitCategory,
			func(c model.BaitCategory) uuid.UUID { return c.ID }),
		clarities: primitiveResolver(KeyWaterClarities, res, tx.GetWaterClarityByName, tx.AddWaterClarity, model.NewWaterClarity,
			func(w model.WaterClarity) uuid.UUID { return w.ID }),
		methods: primitiveResolver(KeyFishingMethods, res, tx.GetFishingMethodByName, tx.AddFishingMethod, model.NewFishingMethod,
			func(m model.FishingMethod) uuid.UUID { return m.ID }),
		anglers: primitiveResolver(KeyAnglers, res, tx.GetAnglerByName, tx.AddAngler, model.NewAngler,
			func(a model.Angler) uuid.UUID { return a.ID }),
		locations: primitiveResolver(KeyLocations, res, tx.GetLocationByName, tx.AddLocation, model.NewLocation,
			func(l model.Location) uuid.UUID { return l.ID }),
		baits: map[[2]string]uuid.UUID{},
		spots: map[[2]string]uuid.UUID{},
	}
}

func (a *applier) apply(doc *Document) error {
	for _, list := range []struct {
		r     *resolver
		names []Named
	}{
		{a.species, doc.Species},
		{a.categories, doc.BaitCategories},
		{a.clarities, doc.WaterClarities},
		{a.methods, doc.FishingMethods},
		{a.anglers, doc.Anglers},
	} {
		for _, n := range list.names {
			if _, err := list.r.listed(n.Name); err != nil {
				return err
			}
		}
	}

	for _, b := range doc.Baits {
		if _, err := a.bait(b, true); err != nil {
			return err
		}
	}

	for _, loc := range doc.Locations {
		locID, err := a.locations.listed(loc.Name)
		if err != nil {
			return err
		}
		for _, s := range loc.FishingSpots {
			if _, err := a.spot(locID, loc.Name, s, true); err != nil {
				return err
			}
		}
	}

	for idx, c := range doc.Catches {
		if err := a.catch(idx, c); err != nil {
			return err
		}
	}

	for idx, t := range doc.Trips {
		if err := a.trip(idx, t); err != nil {
			return err
		}
	}
	return nil
}

// bait finds or creates the bait named b.Name in b.Category. listed is set
// for baits from the document's bait list, which carry every field and
// count as skipped when already present.
func (a *applier) bait(b Bait, listed bool) (uuid.UUID, error) {
	key := [2]string{b.Category, b.Name}
	if id, ok := a.baits[key]; ok {
		return id, nil
	}

	stored, err := a.tx.GetBaitByName(b.Name, b.Category)
	switch {
	case err == nil:
		if listed {
			a.res.Skipped[KeyBaits]++
		}
		a.baits[key] = stored.ID
		return stored.ID, nil
	case !errors.Is(err, logbook.ErrNotFound):
		return uuid.Nil, err
	}

	categoryID, err := a.categories.resolve(b.Category)
	if err != nil {
		return uuid.Nil, err
	}

	bait := model.NewBait(b.Name, model.BaitCategory{UserDefine: model.UserDefine{ID: categoryID, Name: b.Category}})
	bait.Color = b.Color
	bait.Size = b.Size
	bait.Description = b.Description
	bait.Type = model.BaitType(b.Type)
	bait.Photos = b.Images
	if err := a.tx.AddBait(bait); err != nil {
		return uuid.Nil, err
	}

	a.res.Created[KeyBaits]++
	a.baits[key] = bait.ID
	return bait.ID, nil
}

func (a *applier) spot(locationID uuid.UUID, location string, s FishingSpot, listed bool) (uuid.UUID, error) {
	key := [2]string{location, s.Name}
	if id, ok := a.spots[key]; ok {
		return id, nil
	}

	stored, err := a.tx.GetFishingSpotByName(locationID, s.Name)
	switch {
	case err == nil:
		if listed {
			a.res.Skipped[KeyFishingSpots]++
		}
		a.spots[key] = stored.ID
		return stored.ID, nil
	case !errors.Is(err, logbook.ErrNotFound):
		return uuid.Nil, err
	}

	spot := model.NewFishingSpot(s.Name, s.Latitude, s.Longitude)
	if err := a.tx.AddFishingSpot(locationID, spot); err != nil {
		return uuid.Nil, err
	}
	a.res.Created[KeyFishingSpots]++
	a.spots[key] = spot.ID
	return spot.ID, nil
}

func (a *applier) catch(idx int, c Catch) error {
	date, err := ParseDate(c.Date)
	if err != nil {
		return &ParseError{Entity: KeyCatches, Index: idx, Field: "date", Err: err}
	}

	exists, err := a.tx.CatchExists(date)
	if err != nil {
		return err
	}
	if exists {
		a.res.Skipped[KeyCatches]++
		return nil
	}

	out := model.NewCatch(date)
	out.IsFavorite = c.IsFavorite
	out.Result = model.CatchResult(c.Result)
	out.Quantity = c.Quantity
	out.Length = c.Length
	out.Weight = c.Weight
	out.WaterDepth = c.WaterDepth
	out.WaterTemperature = c.WaterTemperature
	out.Notes = c.Notes
	out.Photos = c.Images

	if c.Species != "" {
		id, err := a.species.resolve(c.Species)
		if err != nil {
			return err
		}
		out.SpeciesID = model.Ref(id)
	}
	if c.WaterClarity != "" {
		id, err := a.clarities.resolve(c.WaterClarity)
		if err != nil {
			return err
		}
		out.WaterClarityID = model.Ref(id)
	}
	if c.Bait != "" {
		id, err := a.bait(Bait{Name: c.Bait, Category: c.BaitCategory}, false)
		if err != nil {
			return err
		}
		out.BaitID = model.Ref(id)
	}
	if c.FishingSpot != "" {
		locID, err := a.locations.resolve(c.Location)
		if err != nil {
			return err
		}
		id, err := a.spot(locID, c.Location, FishingSpot{Name: c.FishingSpot}, false)
		if err != nil {
			return err
		}
		out.FishingSpotID = model.Ref(id)
	}
	for _, name := range c.FishingMethodNames {
		id, err := a.methods.resolve(name)
		if err != nil {
			return err
		}
		if !out.UsesFishingMethod(id) {
			out.FishingMethodIDs = append(out.FishingMethodIDs, id)
		}
	}
	if c.Weather != nil {
		out.Weather = &model.Weather{
			Temperature:   c.Weather.Temperature,
			WindSpeed:     c.Weather.WindSpeed,
			SkyConditions: c.Weather.SkyConditions,
		}
	}

	if err := a.tx.AddCatch(out); err != nil {
		return err
	}
	a.res.Created[KeyCatches]++
	return nil
}

func (a *applier) trip(idx int, t Trip) error {
	exists, err := a.tx.TripExists(t.Name)
	if err != nil {
		return err
	}
	if exists {
		a.res.Skipped[KeyTrips]++
		return nil
	}

	start, err := ParseDate(t.StartDate)
	if err != nil {
		return &ParseError{Entity: KeyTrips, Index: idx, Field: "startDate", Err: err}
	}
	end, err := ParseDate(t.EndDate)
	if err != nil {
		return &ParseError{Entity: KeyTrips, Index: idx, Field: "endDate", Err: err}
	}

	out := model.NewTrip(t.Name, start, end)
	out.Notes = t.Notes

	for _, name := range t.Anglers {
		id, err := a.anglers.resolve(name)
		if err != nil {
			return err
		}
		out.AnglerIDs = append(out.AnglerIDs, id)
	}
	for _, name := range t.Locations {
		id, err := a.locations.resolve(name)
		if err != nil {
			return err
		}
		out.LocationIDs = append(out.LocationIDs, id)
	}
	for _, s := range t.Catches {
		date, err := ParseDate(s)
		if err != nil {
			return &ParseError{Entity: KeyTrips, Index: idx, Field: "catches", Err: err}
		}
		c, err := a.tx.GetCatchByDate(date)
		if err != nil {
			return &ParseError{Entity: KeyTrips, Index: idx, Field: "catches", Err: err}
		}
		out.CatchIDs = append(out.CatchIDs, c.ID)
	}

	if err := a.tx.AddTrip(out); err != nil {
		return err
	}
	a.res.Created[KeyTrips]++
	return nil
}

// resolver maps names of one entity kind to ids, creating missing entities
type resolver struct {
	entity string
	res    *Result
	lookup func(name string) (uuid.UUID, error)
	create func(name string) (uuid.UUID, error)
	ids    map[string]uuid.UUID
}

func primitiveResolver[T any](entity string, res *Result, get func(string) (T, error), add func(T) error, newEntity func(string) T, id func(T) uuid.UUID) *resolver {
	return &resolver{
		entity: entity,
		res:    res,
		ids:    map[string]uuid.UUID{},
		lookup: func(name string) (uuid.UUID, error) {
			v, err := get(name)
			return id(v), err
		},
		create: func(name string) (uuid.UUID, error) {
			v := newEntity(name)
			return id(v), add(v)
		},
	}
}

// resolve returns the id for name, creating the entity if needed
func (r *resolver) resolve(name string) (uuid.UUID, error) {
	id, _, err := r.find(name)
	return id, err
}

// listed is resolve for entries of the entity's own list, where an
// existing entity counts as skipped
func (r *resolver) listed(name string) (uuid.UUID, error) {
	id, existed, err := r.find(name)
	if err == nil && existed {
		r.res.Skipped[r.entity]++
	}
	return id, err
}

func (r *resolver) find(name string) (uuid.UUID, bool, error) {
	if id, ok := r.ids[name]; ok {
		return id, true, nil
	}

	id, err := r.lookup(name)
	existed := err == nil
	if errors.Is(err, logbook.ErrNotFound) {
		id, err = r.create(name)
		if err == nil {
			r.res.Created[r.entity]++
		}
	}
	if err != nil {
		return uuid.Nil, false, err
	}

	r.ids[name] = id
	return id, existed, nil
}

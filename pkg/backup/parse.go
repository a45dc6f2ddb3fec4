package backup

import (
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/antonholmquist/jason"
	"github.com/latoulicious/anglerslog/pkg/model"
	"github.com/pkg/errors"
)

// Parse reads a document. It accepts the original app's backups as well as
// our own exports: numbers may arrive as strings, a null or negative
// measurement means unset, and weights may be split into pounds and ounces.
func Parse(r io.Reader) (*Document, error) {
	root, err := jason.NewObjectFromReader(r)
	if err != nil {
		return nil, &ParseError{Entity: "document", Index: -1, Err: errors.Wrap(ErrWrongType, err.Error())}
	}
	top := newFields("document", -1, root)

	doc := &Document{}
	if doc.Journal, err = parseJournal(top); err != nil {
		return nil, err
	}
	if doc.Journal.Version > FormatVersion {
		return nil, &ParseError{Entity: KeyJournal, Index: -1, Field: "version",
			Err: errors.Wrapf(ErrUnsupportedVersion, "version %d", doc.Journal.Version)}
	}

	for _, list := range []struct {
		key string
		dst *[]Named
	}{
		{KeySpecies, &doc.Species},
		{KeyBaitCategories, &doc.BaitCategories},
		{KeyWaterClarities, &doc.WaterClarities},
		{KeyFishingMethods, &doc.FishingMethods},
		{KeyAnglers, &doc.Anglers},
	} {
		if *list.dst, err = parseNamed(top, list.key); err != nil {
			return nil, err
		}
	}

	if err := eachObject(top, KeyBaits, func(f fields) error {
		b, err := parseBait(f)
		doc.Baits = append(doc.Baits, b)
		return err
	}); err != nil {
		return nil, err
	}

	if err := eachObject(top, KeyLocations, func(f fields) error {
		loc, err := parseLocation(f)
		doc.Locations = append(doc.Locations, loc)
		return err
	}); err != nil {
		return nil, err
	}

	if err := eachObject(top, KeyCatches, func(f fields) error {
		c, err := parseCatch(f)
		doc.Catches = append(doc.Catches, c)
		return err
	}); err != nil {
		return nil, err
	}

	if err := eachObject(top, KeyTrips, func(f fields) error {
		t, err := parseTrip(f)
		doc.Trips = append(doc.Trips, t)
		return err
	}); err != nil {
		return nil, err
	}

	return doc, nil
}

// The journal is an object in our exports and a bare name in older ones
func parseJournal(top fields) (JournalInfo, error) {
	info := JournalInfo{Version: FormatVersion}

	v, ok := top.get(KeyJournal)
	if !ok {
		return info, nil
	}
	if name, err := v.String(); err == nil {
		info.Name = name
		return info, nil
	}

	obj, err := v.Object()
	if err != nil {
		return info, top.fail(KeyJournal, ErrWrongType)
	}
	f := newFields(KeyJournal, -1, obj)
	if info.Name, err = f.string("name"); err != nil {
		return info, err
	}
	if info.Version, err = f.int("version", FormatVersion); err != nil {
		return info, err
	}
	if info.ExportedAt, err = f.string("exportedAt"); err != nil {
		return info, err
	}
	return info, nil
}

// parseNamed reads a list of name-only entities, given either as names or
// as {"name": ...} objects
func parseNamed(top fields, key string) ([]Named, error) {
	values, err := top.array(key)
	if err != nil || values == nil {
		return nil, err
	}

	out := make([]Named, 0, len(values))
	for i, v := range values {
		if name, err := v.String(); err == nil && name != "" {
			out = append(out, Named{Name: name})
			continue
		}
		obj, err := v.Object()
		if err != nil {
			return nil, &ParseError{Entity: key, Index: i, Err: ErrWrongType}
		}
		name, err := newFields(key, i, obj).requiredString("name")
		if err != nil {
			return nil, err
		}
		out = append(out, Named{Name: name})
	}
	return out, nil
}

func parseBait(f fields) (b Bait, err error) {
	if b.Name, err = f.requiredString("name"); err != nil {
		return b, err
	}
	if b.Category, err = f.string("baitCategory"); err != nil {
		return b, err
	}
	if b.Category == "" {
		b.Category = DefaultBaitCategory
	}
	if b.Color, err = f.string("color"); err != nil {
		return b, err
	}
	if b.Size, err = f.string("size"); err != nil {
		return b, err
	}
	if b.Description, err = f.string("description"); err != nil {
		return b, err
	}
	if b.Type, err = f.int("baitType", int(model.BaitArtificial)); err != nil {
		return b, err
	}
	if !model.BaitType(b.Type).Valid() {
		return b, f.fail("baitType", errors.Wrapf(ErrWrongType, "unknown bait type %d", b.Type))
	}
	if b.Images, err = f.strings("images"); err != nil {
		return b, err
	}
	return b, nil
}

func parseLocation(f fields) (loc Location, err error) {
	if loc.Name, err = f.requiredString("name"); err != nil {
		return loc, err
	}
	err = eachObject(f, KeyFishingSpots, func(spot fields) error {
		var s FishingSpot
		var err error
		if s.Name, err = spot.requiredString("name"); err != nil {
			return err
		}
		if s.Latitude, err = spot.float("latitude"); err != nil {
			return err
		}
		if s.Longitude, err = spot.float("longitude"); err != nil {
			return err
		}
		loc.FishingSpots = append(loc.FishingSpots, s)
		return nil
	})
	return loc, err
}

func parseCatch(f fields) (c Catch, err error) {
	date, err := f.date("date")
	if err != nil {
		return c, err
	}
	c.Date = FormatDate(date)

	if c.IsFavorite, err = f.bool("isFavorite"); err != nil {
		return c, err
	}
	if c.Species, err = f.string("fishSpecies"); err != nil {
		return c, err
	}
	if c.Result, err = f.int("fishResult", int(model.Released)); err != nil {
		return c, err
	}
	if c.Result != int(model.Released) && c.Result != int(model.Kept) {
		return c, f.fail("fishResult", errors.Wrapf(ErrWrongType, "unknown result %d", c.Result))
	}

	if c.Quantity, err = f.optionalInt("fishQuantity"); err != nil {
		return c, err
	}
	if c.Length, err = f.optionalFloat("fishLength"); err != nil {
		return c, err
	}
	if c.Weight, err = f.optionalFloat("fishWeight"); err != nil {
		return c, err
	}
	ounces, err := f.optionalFloat("fishOunces")
	if err != nil {
		return c, err
	}
	if ounces != nil && *ounces > 0 {
		pounds := 0.0
		if c.Weight != nil {
			pounds = *c.Weight
		}
		c.Weight = model.Ptr(pounds + *ounces/16)
	}
	if c.WaterDepth, err = f.optionalFloat("waterDepth"); err != nil {
		return c, err
	}
	if c.WaterTemperature, err = f.optionalInt("waterTemperature"); err != nil {
		return c, err
	}

	if c.WaterClarity, err = f.string("waterClarity"); err != nil {
		return c, err
	}
	if c.Bait, err = f.string("baitUsed"); err != nil {
		return c, err
	}
	if c.BaitCategory, err = f.string("baitCategory"); err != nil {
		return c, err
	}
	if c.Bait != "" && c.BaitCategory == "" {
		c.BaitCategory = DefaultBaitCategory
	}
	if c.Location, err = f.string("location"); err != nil {
		return c, err
	}
	if c.FishingSpot, err = f.string("fishingSpot"); err != nil {
		return c, err
	}
	if c.FishingSpot != "" && c.Location == "" {
		return c, f.fail("location", errors.Wrap(ErrMissingField, "fishing spot without location"))
	}

	if c.Notes, err = f.string("notes"); err != nil {
		return c, err
	}
	if c.FishingMethodNames, err = f.strings("fishingMethodNames"); err != nil {
		return c, err
	}
	if c.Images, err = f.strings("images"); err != nil {
		return c, err
	}
	if c.Journal, err = f.string("journal"); err != nil {
		return c, err
	}

	c.Weather, err = parseWeather(f)
	return c, err
}

// Old backups write an empty object for a catch without weather, and the
// wind speed as a decimal string
func parseWeather(f fields) (*Weather, error) {
	w, ok, err := f.object("weatherData")
	if err != nil || !ok || len(w.values) == 0 {
		return nil, err
	}

	var out Weather
	if out.Temperature, err = w.int("temperature", 0); err != nil {
		return nil, err
	}
	if out.WindSpeed, err = w.int("windSpeed", 0); err != nil {
		return nil, err
	}
	if out.SkyConditions, err = w.string("skyConditions"); err != nil {
		return nil, err
	}
	return &out, nil
}

func parseTrip(f fields) (t Trip, err error) {
	if t.Name, err = f.requiredString("name"); err != nil {
		return t, err
	}
	start, err := f.date("startDate")
	if err != nil {
		return t, err
	}
	end, err := f.date("endDate")
	if err != nil {
		return t, err
	}
	if end.Before(start) {
		return t, f.fail("endDate", errors.New("trip ends before it starts"))
	}
	t.StartDate, t.EndDate = FormatDate(start), FormatDate(end)

	if t.Notes, err = f.string("notes"); err != nil {
		return t, err
	}
	if t.Anglers, err = f.strings("anglers"); err != nil {
		return t, err
	}
	if t.Locations, err = f.strings("locations"); err != nil {
		return t, err
	}
	if t.Catches, err = f.strings("catches"); err != nil {
		return t, err
	}
	for i, s := range t.Catches {
		date, err := ParseDate(s)
		if err != nil {
			return t, f.fail("catches", err)
		}
		t.Catches[i] = FormatDate(date)
	}
	return t, nil
}

// fields reads typed values out of one JSON object and reports failures
// against the entity and index being parsed
type fields struct {
	entity string
	index  int
	values map[string]*jason.Value
}

func newFields(entity string, index int, obj *jason.Object) fields {
	return fields{entity: entity, index: index, values: obj.Map()}
}

func (f fields) fail(field string, err error) error {
	return &ParseError{Entity: f.entity, Index: f.index, Field: field, Err: err}
}

// get returns the value under key; absent and null are the same
func (f fields) get(key string) (*jason.Value, bool) {
	v, ok := f.values[key]
	if !ok || v == nil || v.Null() == nil {
		return nil, false
	}
	return v, true
}

func (f fields) string(key string) (string, error) {
	v, ok := f.get(key)
	if !ok {
		return "", nil
	}
	s, err := v.String()
	if err != nil {
		return "", f.fail(key, ErrWrongType)
	}
	return s, nil
}

func (f fields) requiredString(key string) (string, error) {
	s, err := f.string(key)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(s) == "" {
		return "", f.fail(key, ErrMissingField)
	}
	return s, nil
}

// number accepts a JSON number or a string holding one
func (f fields) number(key string) (float64, bool, error) {
	v, ok := f.get(key)
	if !ok {
		return 0, false, nil
	}
	if n, err := v.Float64(); err == nil {
		return n, true, nil
	}
	if s, err := v.String(); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false, nil
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n, true, nil
		}
	}
	return 0, false, f.fail(key, ErrWrongType)
}

func (f fields) float(key string) (float64, error) {
	n, _, err := f.number(key)
	return n, err
}

func (f fields) int(key string, def int) (int, error) {
	n, ok, err := f.number(key)
	if err != nil || !ok {
		return def, err
	}
	return int(math.Round(n)), nil
}

// optionalFloat treats negative values as unset; the old app stored -1
func (f fields) optionalFloat(key string) (*float64, error) {
	n, ok, err := f.number(key)
	if err != nil || !ok || n < 0 {
		return nil, err
	}
	return &n, nil
}

func (f fields) optionalInt(key string) (*int, error) {
	n, ok, err := f.number(key)
	if err != nil || !ok || n < 0 {
		return nil, err
	}
	i := int(math.Round(n))
	return &i, nil
}

func (f fields) bool(key string) (bool, error) {
	v, ok := f.get(key)
	if !ok {
		return false, nil
	}
	if b, err := v.Boolean(); err == nil {
		return b, nil
	}
	if n, err := v.Float64(); err == nil {
		return n != 0, nil
	}
	return false, f.fail(key, ErrWrongType)
}

func (f fields) date(key string) (time.Time, error) {
	s, err := f.requiredString(key)
	if err != nil {
		return time.Time{}, err
	}
	t, err := ParseDate(s)
	if err != nil {
		return time.Time{}, f.fail(key, err)
	}
	return t, nil
}

func (f fields) array(key string) ([]*jason.Value, error) {
	v, ok := f.get(key)
	if !ok {
		return nil, nil
	}
	values, err := v.Array()
	if err != nil {
		return nil, f.fail(key, ErrWrongType)
	}
	return values, nil
}

// strings reads an array of names. Entries may also be {"name": ...}
// objects; empty names are dropped.
func (f fields) strings(key string) ([]string, error) {
	values, err := f.array(key)
	if err != nil || len(values) == 0 {
		return nil, err
	}

	var out []string
	for _, v := range values {
		if s, err := v.String(); err == nil {
			if s != "" {
				out = append(out, s)
			}
			continue
		}
		obj, err := v.Object()
		if err != nil {
			return nil, f.fail(key, ErrWrongType)
		}
		name, err := obj.GetString("name")
		if err != nil {
			return nil, f.fail(key, ErrWrongType)
		}
		if name != "" {
			out = append(out, name)
		}
	}
	return out, nil
}

func (f fields) object(key string) (fields, bool, error) {
	v, ok := f.get(key)
	if !ok {
		return fields{}, false, nil
	}
	obj, err := v.Object()
	if err != nil {
		return fields{}, false, f.fail(key, ErrWrongType)
	}
	return newFields(f.entity+"."+key, f.index, obj), true, nil
}

// eachObject calls fn for every object in the array under key, with fields
// that report errors as key[i]
func eachObject(f fields, key string, fn func(fields) error) error {
	values, err := f.array(key)
	if err != nil {
		return err
	}
	for i, v := range values {
		obj, err := v.Object()
		if err != nil {
			return &ParseError{Entity: key, Index: i, Err: ErrWrongType}
		}
		if err := fn(newFields(key, i, obj)); err != nil {
			return err
		}
	}
	return nil
}

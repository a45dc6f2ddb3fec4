package backup

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/latoulicious/anglerslog/pkg/logbook"
	"github.com/latoulicious/anglerslog/pkg/logging"
	"github.com/latoulicious/anglerslog/pkg/model"
	"github.com/pkg/errors"
)

// Exporter writes a logbook out as a Document
type Exporter struct {
	logbook *logbook.Logbook
	logger  logging.Logger
	now     func() time.Time
}

// NewExporter creates an exporter for lb
func NewExporter(lb *logbook.Logbook, logger logging.Logger) *Exporter {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Exporter{logbook: lb, logger: logger, now: time.Now}
}

// Build reads every entity from the logbook into a document
func (e *Exporter) Build(ctx context.Context) (*Document, error) {
	var doc *Document
	// One transaction gives a consistent snapshot of the whole logbook
	err := e.logbook.WithContext(ctx).Transaction(func(tx *logbook.Logbook) error {
		var err error
		doc, err = e.build(tx)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "build export")
	}
	return doc, nil
}

func (e *Exporter) build(lb *logbook.Logbook) (*Document, error) {
	doc := &Document{
		Journal: JournalInfo{
			Name:       lb.Name(),
			Version:    FormatVersion,
			ExportedAt: FormatDate(e.now()),
		},
	}

	species, err := lb.ListSpecies()
	if err != nil {
		return nil, err
	}
	speciesNames := make(map[uuid.UUID]string, len(species))
	for _, s := range species {
		speciesNames[s.ID] = s.Name
		doc.Species = append(doc.Species, Named{Name: s.Name})
	}

	categories, err := lb.ListBaitCategories()
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		doc.BaitCategories = append(doc.BaitCategories, Named{Name: c.Name})
	}

	baits, err := lb.ListBaits()
	if err != nil {
		return nil, err
	}
	baitsByID := make(map[uuid.UUID]model.Bait, len(baits))
	for _, b := range baits {
		baitsByID[b.ID] = b
		doc.Baits = append(doc.Baits, Bait{
			Name:        b.Name,
			Category:    b.Category.Name,
			Color:       b.Color,
			Size:        b.Size,
			Description: b.Description,
			Type:        int(b.Type),
			Images:      b.Photos,
		})
	}

	clarities, err := lb.ListWaterClarities()
	if err != nil {
		return nil, err
	}
	clarityNames := make(map[uuid.UUID]string, len(clarities))
	for _, w := range clarities {
		clarityNames[w.ID] = w.Name
		doc.WaterClarities = append(doc.WaterClarities, Named{Name: w.Name})
	}

	methods, err := lb.ListFishingMethods()
	if err != nil {
		return nil, err
	}
	methodNames := make(map[uuid.UUID]string, len(methods))
	for _, m := range methods {
		methodNames[m.ID] = m.Name
		doc.FishingMethods = append(doc.FishingMethods, Named{Name: m.Name})
	}

	anglers, err := lb.ListAnglers()
	if err != nil {
		return nil, err
	}
	anglerNames := make(map[uuid.UUID]string, len(anglers))
	for _, a := range anglers {
		anglerNames[a.ID] = a.Name
		doc.Anglers = append(doc.Anglers, Named{Name: a.Name})
	}

	locations, err := lb.ListLocations()
	if err != nil {
		return nil, err
	}
	locationNames := make(map[uuid.UUID]string, len(locations))
	spots := make(map[uuid.UUID]model.FishingSpot)
	for _, loc := range locations {
		locationNames[loc.ID] = loc.Name
		out := Location{Name: loc.Name}
		for _, s := range loc.FishingSpots {
			spots[s.ID] = s
			out.FishingSpots = append(out.FishingSpots, FishingSpot{
				Name:      s.Name,
				Latitude:  s.Latitude,
				Longitude: s.Longitude,
			})
		}
		doc.Locations = append(doc.Locations, out)
	}

	catches, err := lb.ListCatches()
	if err != nil {
		return nil, err
	}
	catchDates := make(map[uuid.UUID]string, len(catches))
	for _, c := range catches {
		out := Catch{
			Date:             FormatDate(c.Date),
			IsFavorite:       c.IsFavorite,
			Result:           int(c.Result),
			Quantity:         c.Quantity,
			Length:           c.Length,
			Weight:           c.Weight,
			WaterDepth:       c.WaterDepth,
			WaterTemperature: c.WaterTemperature,
			Notes:            c.Notes,
			Images:           c.Photos,
			Journal:          lb.Name(),
		}
		if c.SpeciesID.Valid {
			out.Species = speciesNames[c.SpeciesID.UUID]
		}
		if c.WaterClarityID.Valid {
			out.WaterClarity = clarityNames[c.WaterClarityID.UUID]
		}
		if c.BaitID.Valid {
			b := baitsByID[c.BaitID.UUID]
			out.Bait = b.Name
			out.BaitCategory = b.Category.Name
		}
		if c.FishingSpotID.Valid {
			s := spots[c.FishingSpotID.UUID]
			out.FishingSpot = s.Name
			out.Location = locationNames[s.LocationID]
		}
		for _, id := range c.FishingMethodIDs {
			out.FishingMethodNames = append(out.FishingMethodNames, methodNames[id])
		}
		if c.Weather != nil {
			out.Weather = &Weather{
				Temperature:   c.Weather.Temperature,
				WindSpeed:     c.Weather.WindSpeed,
				SkyConditions: c.Weather.SkyConditions,
			}
		}

		catchDates[c.ID] = out.Date
		doc.Catches = append(doc.Catches, out)
	}

	trips, err := lb.ListTrips()
	if err != nil {
		return nil, err
	}
	for _, t := range trips {
		out := Trip{
			Name:      t.Name,
			StartDate: FormatDate(t.StartDate),
			EndDate:   FormatDate(t.EndDate),
			Notes:     t.Notes,
		}
		for _, id := range t.AnglerIDs {
			out.Anglers = append(out.Anglers, anglerNames[id])
		}
		for _, id := range t.LocationIDs {
			out.Locations = append(out.Locations, locationNames[id])
		}
		for _, id := range t.CatchIDs {
			out.Catches = append(out.Catches, catchDates[id])
		}
		doc.Trips = append(doc.Trips, out)
	}

	return doc, nil
}

// Export writes the logbook to w as indented JSON
func (e *Exporter) Export(ctx context.Context, w io.Writer) error {
	doc, err := e.Build(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "encode export")
	}

	e.logger.Info("Exported logbook", map[string]interface{}{
		"journal":   doc.Journal.Name,
		"catches":   len(doc.Catches),
		"trips":     len(doc.Trips),
		"baits":     len(doc.Baits),
		"locations": len(doc.Locations),
	})
	return nil
}

// ExportFile writes the export to path. The file is written next to its
// destination and renamed into place, so a failed export never leaves a
// truncated backup behind.
func (e *Exporter) ExportFile(ctx context.Context, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create backup directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".anglerslog-*.json.tmp")
	if err != nil {
		return errors.Wrap(err, "create temporary export file")
	}
	defer os.Remove(tmp.Name())

	if err := e.Export(ctx, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close export file")
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "move export into %s", path)
	}
	fileLogger(e.logger, path).Info("Export file written", nil)
	return nil
}

// fileLogger names the file on backup loggers; others are returned as is
func fileLogger(logger logging.Logger, path string) logging.Logger {
	if bl, ok := logger.(*logging.BackupLogger); ok {
		return bl.WithFile(path)
	}
	return logger
}

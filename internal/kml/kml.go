// Package kml writes the placemark artifact: one named point per
// successfully resolved venue.
package kml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"

	"github.com/UnknownOlympus/waypoint/internal/models"
)

const kmlNamespace = "http://www.opengis.net/kml/2.2"

// ErrRowMismatch is returned when the result count does not line up with
// the row count.
var ErrRowMismatch = errors.New("row count does not match result count")

type document struct {
	XMLName   xml.Name `xml:"kml"`
	Namespace string   `xml:"xmlns,attr"`
	Document  folder   `xml:"Document"`
}

// folder keeps the Document container present even when no venue
// resolved, so the artifact is always a well-formed point collection.
type folder struct {
	Placemarks []placemark `xml:"Placemark"`
}

type placemark struct {
	Name  string `xml:"name"`
	Point point  `xml:"Point"`
}

type point struct {
	// KML mandates longitude before latitude.
	Coordinates string `xml:"coordinates"`
}

// Write saves the placemark document for a batch. Rows whose outcome has
// no point are omitted entirely, so the placemark count may be less than
// the row count. Placemarks are named with the query's full name.
func Write(path string, rows []models.Row, results models.BatchResult) error {
	if len(rows) != len(results) {
		return fmt.Errorf("%w: %d rows, %d results", ErrRowMismatch, len(rows), len(results))
	}

	placemarks := make([]placemark, 0, len(results))
	for i, outcome := range results {
		if outcome.Point == nil {
			continue
		}
		query := models.Query{City: rows[i].City, Venue: rows[i].Venue}
		placemarks = append(placemarks, placemark{
			Name: query.FullName(),
			Point: point{
				Coordinates: fmt.Sprintf("%v,%v,0", outcome.Point.Lng, outcome.Point.Lat),
			},
		})
	}

	doc := document{Namespace: kmlNamespace, Document: folder{Placemarks: placemarks}}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal placemark document: %w", err)
	}

	const filePerm = 0o644
	content := append([]byte(xml.Header), body...)
	if err = os.WriteFile(path, content, filePerm); err != nil {
		return fmt.Errorf("failed to write placemark file: %w", err)
	}

	return nil
}

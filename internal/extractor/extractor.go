// Package extractor pulls listing links from front pages and normalized
// records from detail pages. It is pure over parsed documents; fetching and
// orchestration live elsewhere.
package extractor

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"

	"pigiame-crawler/internal/crawler"
	"pigiame-crawler/internal/formatter"
)

// Selectors for the pigiame.co.ke markup.
const (
	listingCardLinks = ".listings-cards a.listing-card__inner"

	detailAdID     = ".listing-item__details .listing-item__details__ad-id"
	detailLocation = ".listing-item__address .listing-item__address-location"
	detailRegion   = ".listing-item__address .listing-item__address-region"
	detailPrice    = ".listing-item__price .listing-card__price__value"
	detailDate     = ".listing-item__details .listing-item__details__date"

	propertyLabels = "dl.listing-item__properties dt.listing-item__properties__title"
	propertyValue  = "dd.listing-item__properties__description"
)

// Labels with special handling in the property walk. "car features" fans out
// into a JSON array, "mileage" into a value plus unit.
const (
	labelCarFeatures = "car features"
	labelMileage     = "mileage"
)

// propertyColumns maps the remaining normalized property labels onto record
// columns. A label missing from the page simply leaves its column nil.
var propertyColumns = map[string]func(*crawler.ListingRecord, string){
	"condition":    func(r *crawler.ListingRecord, v string) { r.Condition = &v },
	"make":         func(r *crawler.ListingRecord, v string) { r.Make = &v },
	"model":        func(r *crawler.ListingRecord, v string) { r.Model = &v },
	"transmission": func(r *crawler.ListingRecord, v string) { r.Transmission = &v },
	"drive type":   func(r *crawler.ListingRecord, v string) { r.DriveType = &v },
	"build year": func(r *crawler.ListingRecord, v string) {
		if y, err := strconv.ParseInt(v, 10, 16); err == nil {
			year := int16(y)
			r.BuildYear = &year
		}
	},
}

// Extractor implements crawler.Extractor for the Pigiame markup.
type Extractor struct{}

// New returns an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// ListingLinks returns the href of every listing card on a front page in
// document order. An empty result signals the end of pagination.
func (e *Extractor) ListingLinks(doc *goquery.Document) []string {
	var links []string
	doc.Find(listingCardLinks).Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok && href != "" {
			links = append(links, href)
		}
	})
	return links
}

// DetailRecord extracts one normalized listing from a detail page. The ad id
// must parse; every other field is best effort and stays absent on failure.
func (e *Extractor) DetailRecord(doc *goquery.Document, now time.Time) (crawler.ListingRecord, error) {
	rec := crawler.ListingRecord{CreatedAt: now}

	id, err := formatter.Identifier(doc.Find(detailAdID).First().Text())
	if err != nil {
		return crawler.ListingRecord{}, err
	}
	rec.AdID = id

	rec.Location = formatter.Text(doc.Find(detailLocation).First().Text())
	rec.Region = formatter.Text(doc.Find(detailRegion).First().Text())
	rec.Currency, rec.Price = formatter.Price(doc.Find(detailPrice).First().Text())
	rec.AdDateInserted = formatter.Date(now, doc.Find(detailDate).First().Text())

	raw := map[string]string{}
	doc.Find(propertyLabels).Each(func(_ int, label *goquery.Selection) {
		name := formatter.Text(label.Text())
		if name == "" {
			return
		}
		value := label.NextFiltered(propertyValue)

		switch name {
		case labelCarFeatures:
			rec.CarFeatures = carFeatures(value)
		case labelMileage:
			rec.Mileage, rec.MileageUnit = formatter.Mileage(value.Text())
		default:
			raw[name] = formatter.Text(value.Text())
		}
	})

	for label, assign := range propertyColumns {
		if v, ok := raw[label]; ok && v != "" {
			assign(&rec, v)
		}
	}
	return rec, nil
}

// carFeatures collects the list items under the value element, formats each
// and drops empties, then serializes the remainder as a JSON array.
func carFeatures(value *goquery.Selection) *string {
	features := []string{}
	value.Find("li").Each(func(_ int, item *goquery.Selection) {
		if f := formatter.Text(item.Text()); f != "" {
			features = append(features, f)
		}
	})

	encoded, err := json.Marshal(features)
	if err != nil {
		return nil
	}
	s := string(encoded)
	return &s
}

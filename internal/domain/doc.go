// Package domain models AquaSentry hazard reports.
//
// # Data Sources
//
// Reports arrive from two places and share one schema:
//
//	"Crowdsource":  a citizen submission through the web API, carrying the
//	                submitting user's id and an optional photo reference.
//	"Social Media": the feed ingester, which turns a matched social post
//	                into a report. These reports never have an author.
//
// # Lifecycle
//
// A report is created with status "new" and is only ever mutated through an
// explicit status-and-notes update by an analyst. The accepted states are
// exactly: new, verified, action_taken, false_alarm. Any other value is
// rejected at the boundary and leaves the record untouched. Reports are
// never deleted in normal operation.
//
// # Geography
//
// Coordinates are WGS-84 latitude/longitude and must be finite. The ingester
// filters geocoded place names through a rectangular bounding box (configured
// to India) and falls back to a fixed default coordinate (New Delhi) when no
// candidate is accepted. See [BoundingBox] and the pipeline package.
//
// # Sentiment
//
// Social-media reports carry a sentiment label derived from the VADER
// compound score of the post text:
//
//	score ≥ 0.05  → positive
//	score ≤ -0.05 → negative
//	otherwise     → neutral
//
// The band width of 0.10 centered at 0 is deliberate; near-neutral text must
// not flap between classes. Citizen submissions default to neutral.
package domain

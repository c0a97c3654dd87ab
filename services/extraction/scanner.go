package extraction

import (
	"log"
	"regexp"
	"strings"

	"syllabuddy/models"
)

// monthPattern matches a full month name or its standard abbreviation.
// "Sept" is accepted alongside "Sep".
const monthPattern = `(Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:t)?(?:ember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)`

// Scanner is the regex fallback extractor. It pairs the first month+day
// mention on each line with the whole trimmed line as the event
// description. Lines without a date are skipped.
type Scanner struct {
	dateRegex *regexp.Regexp
}

// NewScanner builds a Scanner. A regex construction failure is non-fatal:
// the scanner stays usable and extracts nothing.
func NewScanner() *Scanner {
	re, err := regexp.Compile(`(?i)\b` + monthPattern + ` \d{1,2}\b`)
	if err != nil {
		log.Printf("[scanner] date regex failed to compile: %v", err)
		return &Scanner{}
	}
	return &Scanner{dateRegex: re}
}

// Extract scans raw syllabus text for month+day mentions. Results keep the
// input line order; no dedup happens here, that is the event set's job.
// The returned date fragments carry no year.
func (s *Scanner) Extract(text string) []models.ScannedEvent {
	if s.dateRegex == nil {
		return nil
	}

	var results []models.ScannedEvent
	for _, line := range strings.Split(text, "\n") {
		matches := s.dateRegex.FindAllString(line, -1)
		if len(matches) == 0 {
			continue
		}
		results = append(results, models.ScannedEvent{
			Date:        matches[0],
			Description: strings.TrimSpace(line),
		})
	}
	return results
}

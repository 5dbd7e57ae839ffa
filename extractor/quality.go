package extractor

import (
	"fmt"
	"math"

	"github.com/nimbly-dev/ph-shoes-web-scrapper/internal/types"
	"github.com/nimbly-dev/ph-shoes-web-scrapper/utils"
)

// QualityReport summarizes the observational data-quality pass over a
// normalized result set. It never blocks a run; violations are logged
// and counted so a degraded source site shows up in monitoring.
type QualityReport struct {
	Passed     bool
	Violations []string
}

var knownGenders = map[string]bool{"male": true, "female": true, "unisex": true}

// CheckQuality validates a normalized result set. The records themselves
// are returned to the caller untouched regardless of what is found here.
func CheckQuality(shoes []types.Shoe, logger types.Logger, metrics *utils.Metrics) *QualityReport {
	report := &QualityReport{Passed: true}
	seenIDs := make(map[string]bool, len(shoes))

	flag := func(check, id, field string, value any) {
		v := fmt.Sprintf("id=%s field=%s value=%v: %s", id, field, value, check)
		report.Violations = append(report.Violations, v)
		report.Passed = false
		if logger != nil {
			logger.Warnf("quality: %s", v)
		}
		metrics.IncQualityViolation(check)
	}

	for _, s := range shoes {
		if s.ID == "" {
			flag("missing_required_field", s.ID, "id", s.ID)
		}
		if s.Title == "" {
			flag("missing_required_field", s.ID, "title", s.Title)
		}
		if s.URL == "" {
			flag("missing_required_field", s.ID, "url", s.URL)
		}
		if s.Brand == "" || s.Brand == "unknown" {
			flag("missing_required_field", s.ID, "brand", s.Brand)
		}

		if math.IsNaN(s.PriceSale) || math.IsInf(s.PriceSale, 0) {
			flag("non_finite_price", s.ID, "price_sale", s.PriceSale)
		} else if s.PriceSale < 0 {
			flag("negative_price", s.ID, "price_sale", s.PriceSale)
		}
		if math.IsNaN(s.PriceOriginal) || math.IsInf(s.PriceOriginal, 0) {
			flag("non_finite_price", s.ID, "price_original", s.PriceOriginal)
		} else if s.PriceOriginal < 0 {
			flag("negative_price", s.ID, "price_original", s.PriceOriginal)
		}

		hasMale, hasFemale := false, false
		for _, g := range s.Gender {
			if !knownGenders[g] {
				flag("unknown_gender", s.ID, "gender", g)
			}
			hasMale = hasMale || g == "male"
			hasFemale = hasFemale || g == "female"
		}
		if hasMale && hasFemale {
			flag("uncollapsed_gender", s.ID, "gender", s.Gender)
		}

		if s.ID != "" {
			if seenIDs[s.ID] {
				flag("duplicate_id", s.ID, "id", s.ID)
			}
			seenIDs[s.ID] = true
		}
	}

	return report
}

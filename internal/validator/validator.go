package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arcanaland/cardsync/internal/card"
	"github.com/arcanaland/cardsync/internal/transform"
)

type ValidationResults struct {
	Errors   []string
	Warnings []string
}

// Rules are the properties a refreshed store must have.
type Rules struct {
	BannedTitle  string
	RemoveFields []string
	ImagePrefix  string
}

type Validator struct {
	Records []card.Record
	Rules   Rules
	Results ValidationResults
}

func NewValidator(records []card.Record, rules Rules) *Validator {
	return &Validator{
		Records: records,
		Rules:   rules,
		Results: ValidationResults{},
	}
}

func (v *Validator) Validate() ValidationResults {
	v.validateTitles()
	v.validateRemovedFields()
	v.validateImagePaths()
	v.validateBreakerCosts()
	v.validateLinks()

	return v.Results
}

func (v *Validator) errorf(format string, args ...any) {
	v.Results.Errors = append(v.Results.Errors, fmt.Sprintf(format, args...))
}

func (v *Validator) warnf(format string, args ...any) {
	v.Results.Warnings = append(v.Results.Warnings, fmt.Sprintf(format, args...))
}

// validateTitles checks every card has a unique title and none is banned
func (v *Validator) validateTitles() {
	seen := make(map[string]int)
	for i, r := range v.Records {
		title, err := r.Title()
		if err != nil {
			v.errorf("card #%d has no title", i+1)
			continue
		}
		if prev, ok := seen[title]; ok {
			v.errorf("duplicate title %q (cards #%d and #%d)", title, prev+1, i+1)
		} else {
			seen[title] = i
		}
		if v.Rules.BannedTitle != "" && strings.Contains(title, v.Rules.BannedTitle) {
			v.errorf("banned card still present: %s", title)
		}
	}
}

// validateRemovedFields checks none of the removal set survived
func (v *Validator) validateRemovedFields() {
	for _, r := range v.Records {
		var present []string
		for _, field := range v.Rules.RemoveFields {
			if _, ok := r[field]; ok {
				present = append(present, field)
			}
		}
		if len(present) > 0 {
			v.errorf("%s: unused fields not removed: %s", label(r), strings.Join(present, ", "))
		}
		if !r.Has(card.FieldNRDBURL) {
			v.warnf("%s: no nrdb_url", label(r))
		}
	}
}

// validateImagePaths checks imagesrc matches the slug of the title
func (v *Validator) validateImagePaths() {
	for _, r := range v.Records {
		title := r.TitleOrEmpty()
		if title == "" {
			continue
		}
		want := v.Rules.ImagePrefix + transform.Slug(title) + ".png"
		got, err := r.String(card.FieldImageSrc)
		if err != nil {
			v.errorf("%s: imagesrc is missing", label(r))
			continue
		}
		if got != want {
			v.errorf("%s: imagesrc is %s, expected %s", label(r), got, want)
		}
	}
}

// validateBreakerCosts checks icebreakers carry well-formed cost fields.
// subtype_code is stripped by the refresh, so breakers are recognised by
// having either cost field.
func (v *Validator) validateBreakerCosts() {
	for _, r := range v.Records {
		if !r.Has(card.FieldBreakCost) && !r.Has(card.FieldStrengthCost) {
			continue
		}
		bc, sc, err := r.Costs()
		if err != nil {
			var fe *card.FieldError
			if errors.As(err, &fe) {
				v.errorf("%s: icebreaker has no %s", label(r), fe.Field)
			} else {
				v.errorf("%s: %v", label(r), err)
			}
			continue
		}
		if bc.Credits < 0 || bc.Subroutines < 0 || sc.Credits < 0 || sc.Strength < 0 {
			v.errorf("%s: negative icebreaker cost", label(r))
		}
		if bc.Subroutines == 0 {
			v.warnf("%s: breaks 0 subroutines", label(r))
		}
	}
}

func (v *Validator) validateLinks() {
	linked := 0
	for _, r := range v.Records {
		if r.Has(card.FieldCGDBURL) {
			linked++
		}
	}
	if linked == 0 && len(v.Records) > 0 {
		v.warnf("no cards have a cgdb_url (run 'cardsync links')")
	}
}

func label(r card.Record) string {
	if title := r.TitleOrEmpty(); title != "" {
		return title
	}
	return "<untitled>"
}

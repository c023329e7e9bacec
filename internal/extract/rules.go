package extract

import "strings"

// Indeed markup varies between rollout cohorts. These selectors WILL drift; keep the
// most specific variant first in each list.
const (
	CardSelector       = "a.tapItem, div.job_seen_beacon, div.slider_container"
	PanelReadySelector = "div#jobDescriptionText, div.jobsearch-JobComponent-description"

	ListingKeyAttribute = "data-jk"
	ListingKeyParam     = "jk"
)

var (
	titleSelectors = []string{
		"h1.jobsearch-JobInfoHeader-title",
		"h1[data-testid='jobTitle']",
		"div.jobsearch-JobInfoHeader-title-container h1 span",
		"div[data-testid='jobTitle-heading'] span",
		"h2[data-testid='jobsearch-JobInfoHeader-title']",
	}
	companySelectors = []string{
		"div.jobsearch-InlineCompanyRating div:nth-child(1)",
		"div[data-testid='inlineHeader-companyName']",
		"span[data-testid='company-name']",
		"a[data-testid='company-name']",
	}
	locationSelectors = []string{
		"div#jobLocationText",
		"div[data-testid='inlineHeader-companyLocation']",
		"span[data-testid='text-location']",
	}
	descriptionSelectors = []string{
		"div#jobDescriptionText",
		"div.jobsearch-JobComponent-description",
		"div.jobsearch-jobDescriptionText",
	}
)

// PanelRules are the per-field cascades evaluated against a detail panel or detail page.
type PanelRules struct {
	Ready       string
	Title       Cascade
	Company     Cascade
	Location    Cascade
	Description Cascade
}

// DefaultPanelRules returns the built-in Indeed rule lists.
func DefaultPanelRules() PanelRules {
	return PanelRules{
		Ready:       PanelReadySelector,
		Title:       Selectors(titleSelectors...),
		Company:     Selectors(companySelectors...),
		Location:    Selectors(locationSelectors...),
		Description: Selectors(descriptionSelectors...),
	}
}

// Override replaces each list for which a non-empty replacement is given.
func (r PanelRules) Override(ready, title, company, location, description []string) PanelRules {
	if len(ready) > 0 {
		r.Ready = strings.Join(ready, ", ")
	}
	if len(title) > 0 {
		r.Title = Selectors(title...)
	}
	if len(company) > 0 {
		r.Company = Selectors(company...)
	}
	if len(location) > 0 {
		r.Location = Selectors(location...)
	}
	if len(description) > 0 {
		r.Description = Selectors(description...)
	}
	return r
}

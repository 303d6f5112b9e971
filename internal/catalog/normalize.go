package catalog

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobtracker-engine/internal/domain"
)

func normalize(j domain.Job) domain.Job {
	j.ID = strings.TrimSpace(j.ID)
	j.Title = CleanText(j.Title)
	j.Company = CleanText(j.Company)
	j.Location = CleanText(j.Location)
	j.SalaryRange = CleanText(j.SalaryRange)
	j.ApplyURL = strings.TrimSpace(j.ApplyURL)
	j.Description = DescriptionText(j.Description)

	skills := make([]string, 0, len(j.Skills))
	for _, s := range j.Skills {
		if s = CleanText(s); s != "" {
			skills = append(skills, s)
		}
	}
	j.Skills = skills
	return j
}

func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// DescriptionText flattens an HTML description (as exported by most ATS
// boards) to plain text so keyword matching never hits markup.
func DescriptionText(s string) string {
	if !strings.Contains(s, "<") {
		return CleanText(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return CleanText(s)
	}
	// keep block boundaries as word boundaries
	doc.Find("p, li, br, div, h1, h2, h3, h4").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml(" ")
	})
	return CleanText(doc.Text())
}

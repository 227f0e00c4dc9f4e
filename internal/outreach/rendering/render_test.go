package rendering

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderSubstitutesAllTokens(t *testing.T) {
	data := Data{
		AthleteName:     "Jordan Lee",
		TeamName:        "Eastside Track",
		CampaignName:    "Spring Classic",
		DonateURL:       "https://donate.example/jordan",
		PersonalMessage: "Thanks for supporting me!",
	}

	out := Render(DefaultTemplate, data)

	assert.Contains(t, out, "Jordan Lee")
	assert.Contains(t, out, "Eastside Track")
	assert.Contains(t, out, "Spring Classic")
	assert.Contains(t, out, "https://donate.example/jordan")
	assert.Contains(t, out, "Thanks for supporting me!")
	assert.NotContains(t, out, "{")
}

func TestRenderAppendsOmittedSections(t *testing.T) {
	// Custom template without donate-url or personal-message tokens: both
	// sections must still be appended.
	tmpl := "Hello from {athlete_name}."
	data := Data{
		AthleteName:     "Jordan",
		DonateURL:       "https://donate.example/jordan",
		PersonalMessage: "A personal note.",
	}

	out := Render(tmpl, data)

	assert.True(t, strings.HasPrefix(out, "Hello from Jordan."))
	assert.Contains(t, out, "A personal note.")
	assert.Contains(t, out, "Donate here: https://donate.example/jordan")
}

func TestRenderMissingValuesUseDefaults(t *testing.T) {
	out := Render("{athlete_name} / {team_name} / {campaign_name}", Data{})
	assert.Equal(t, "your athlete / our team / our fundraiser", out)
}

func TestRenderDeterministic(t *testing.T) {
	data := Data{AthleteName: "A", DonateURL: "https://d.example"}
	assert.Equal(t, Render(DefaultTemplate, data), Render(DefaultTemplate, data))
}

func TestRenderEmptyPersonalMessageNotAppended(t *testing.T) {
	out := Render("Hi {athlete_name}.", Data{AthleteName: "A"})
	assert.Equal(t, "Hi A.", out)
}

func TestRenderSubjectStaysSingleLine(t *testing.T) {
	data := Data{
		AthleteName:     "Jordan Lee",
		CampaignName:    "Spring Classic",
		DonateURL:       "https://donate.example/jordan",
		PersonalMessage: "my personal note",
	}

	out := RenderSubject(DefaultSubject, data)

	assert.Equal(t, "Support Jordan Lee in Spring Classic", out)
	assert.NotContains(t, out, "\n")
	assert.NotContains(t, out, "Donate here")
}

func TestRenderSubjectSubstitutesAndDefaults(t *testing.T) {
	out := RenderSubject("{athlete_name} needs you, {team_name}!", Data{AthleteName: "Jordan"})
	assert.Equal(t, "Jordan needs you, our team!", out)
}

// Package rendering fills outreach message templates with campaign and
// athlete tokens. Pure string substitution, no I/O.
package rendering

import "strings"

// Template tokens. Unknown tokens in a template are left untouched.
const (
	TokenAthleteName     = "{athlete_name}"
	TokenTeamName        = "{team_name}"
	TokenCampaignName    = "{campaign_name}"
	TokenDonateURL       = "{donate_url}"
	TokenPersonalMessage = "{personal_message}"
)

// Data carries the computed values for one athlete's message.
type Data struct {
	AthleteName     string
	TeamName        string
	CampaignName    string
	DonateURL       string
	PersonalMessage string
}

// Default filler text used when a value is absent. Rendering never fails;
// missing tokens just render as their defaults.
const (
	defaultAthleteName  = "your athlete"
	defaultTeamName     = "our team"
	defaultCampaignName = "our fundraiser"
)

// Render substitutes tokens into a body template. If a custom template
// omits the donate-URL or personal-message section, the computed text for
// that section is still appended so personalization always shows up.
func Render(tmpl string, data Data) string {
	d := withDefaults(data)

	hadDonateURL := strings.Contains(tmpl, TokenDonateURL)
	hadPersonal := strings.Contains(tmpl, TokenPersonalMessage)

	out := substitute(tmpl, d)
	if !hadPersonal && d.PersonalMessage != "" {
		out = out + "\n\n" + d.PersonalMessage
	}
	if !hadDonateURL && d.DonateURL != "" {
		out = out + "\n\nDonate here: " + d.DonateURL
	}
	return out
}

// RenderSubject substitutes tokens only. Subject lines stay a single line;
// the append rule is for bodies.
func RenderSubject(tmpl string, data Data) string {
	return substitute(tmpl, withDefaults(data))
}

func withDefaults(d Data) Data {
	if d.AthleteName == "" {
		d.AthleteName = defaultAthleteName
	}
	if d.TeamName == "" {
		d.TeamName = defaultTeamName
	}
	if d.CampaignName == "" {
		d.CampaignName = defaultCampaignName
	}
	return d
}

func substitute(tmpl string, d Data) string {
	out := tmpl
	out = strings.ReplaceAll(out, TokenAthleteName, d.AthleteName)
	out = strings.ReplaceAll(out, TokenTeamName, d.TeamName)
	out = strings.ReplaceAll(out, TokenCampaignName, d.CampaignName)
	out = strings.ReplaceAll(out, TokenDonateURL, d.DonateURL)
	out = strings.ReplaceAll(out, TokenPersonalMessage, d.PersonalMessage)
	return out
}

// DefaultTemplate is the built-in fallback body used when neither the
// athlete nor the organization provides one.
const DefaultTemplate = "Hi! " + TokenAthleteName + " is raising money for " +
	TokenCampaignName + " with " + TokenTeamName + ".\n\n" + TokenPersonalMessage +
	"\n\nDonate here: " + TokenDonateURL

// DefaultSubject is the built-in fallback subject line.
const DefaultSubject = "Support " + TokenAthleteName + " in " + TokenCampaignName

package mapview

import (
	"strconv"

	"github.com/turtacn/regionmap/internal/domain/region"
	"github.com/turtacn/regionmap/internal/domain/representative"
)

// Display strings.
const (
	TooltipNoOffice    = "Нет офиса"
	PanelEmpty         = "Нет представителей в данном регионе"
	PanelPrompt        = "Выберите регион на карте"
	StatsNoData        = "Нет данных"
	representativeStem = "представител"
)

// Tooltip is what is shown while hovering a region.
type Tooltip struct {
	RegionID string `json:"region_id"`
	Name     string `json:"name"`
	Count    int    `json:"count"`
	Text     string `json:"text"`
}

// ContactCard is one representative as shown in the contact panel.
type ContactCard struct {
	ID         int64    `json:"id"`
	Initials   string   `json:"initials"`
	Name       string   `json:"name"`
	Position   string   `json:"position,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	PhoneHref  string   `json:"phone_href,omitempty"`
	Email      string   `json:"email,omitempty"`
	EmailHref  string   `json:"email_href,omitempty"`
	Activities []string `json:"activities,omitempty"`
}

// ContactPanel lists the representatives of the selected region.  With no
// selection Region is nil and Message holds the prompt; with no matching
// representatives Cards is empty and Message explains why.
type ContactPanel struct {
	Region  *region.Region `json:"region,omitempty"`
	Cards   []ContactCard  `json:"cards"`
	Message string         `json:"message,omitempty"`
}

// RegionSummary is one row of the list view.
type RegionSummary struct {
	region.Region
	Count int `json:"count"`
}

// Stats aggregates the whole collection.
type Stats struct {
	TotalRepresentatives int                           `json:"total_representatives"`
	RegionsCovered       int                           `json:"regions_covered"`
	Activities           []representative.ActivityStat `json:"activities"`
	Message              string                        `json:"message,omitempty"`
}

// NewTooltip builds the tooltip for r given its representative count.
func NewTooltip(r region.Region, count int) Tooltip {
	text := TooltipNoOffice
	if count > 0 {
		text = strconv.Itoa(count) + " " + representativeStem + representative.PluralSuffix(count)
	}
	return Tooltip{RegionID: r.ID, Name: r.Name, Count: count, Text: text}
}

// NewContactCard derives the display fields of rep.
func NewContactCard(rep representative.Representative) ContactCard {
	return ContactCard{
		ID:         rep.ID,
		Initials:   representative.Initials(rep.Name),
		Name:       rep.Name,
		Position:   rep.Position,
		Phone:      rep.Phone,
		PhoneHref:  representative.TelHref(rep.Phone),
		Email:      rep.Email,
		EmailHref:  representative.MailtoHref(rep.Email),
		Activities: rep.Activities,
	}
}

// NewContactPanel builds the panel for r from the representatives already
// filtered to it.  A nil r yields the selection prompt.
func NewContactPanel(r *region.Region, reps []representative.Representative) ContactPanel {
	if r == nil {
		return ContactPanel{Cards: []ContactCard{}, Message: PanelPrompt}
	}
	p := ContactPanel{Region: r, Cards: make([]ContactCard, 0, len(reps))}
	for _, rep := range reps {
		p.Cards = append(p.Cards, NewContactCard(rep))
	}
	if len(p.Cards) == 0 {
		p.Message = PanelEmpty
	}
	return p
}

// NewStats aggregates reps.  RegionsCovered is the catalog size.
func NewStats(reps []representative.Representative, catalogSize int) Stats {
	s := Stats{
		TotalRepresentatives: len(reps),
		RegionsCovered:       catalogSize,
		Activities:           representative.ActivitiesStats(reps),
	}
	if len(s.Activities) == 0 {
		s.Message = StatsNoData
	}
	return s
}

//Personal.AI order the ending

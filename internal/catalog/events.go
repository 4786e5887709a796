package catalog

import "errors"

var ErrEventNotFound = errors.New("event not found")

// Event is a promotion banner linked from the home page carousel.
type Event struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Headline string `json:"headline"`
	Body     string `json:"body"`
	Period   string `json:"period"`
	Banner   string `json:"banner"`
}

var events = []Event{
	{
		Slug:     "season-off",
		Title:    "Season Off Sale",
		Headline: "Up to 40% off",
		Body:     "Last season's most loved fragrances at special prices. The event may close early when stock runs out.",
		Period:   "until sold out",
		Banner:   "https://placehold.co/1200x400/CCCCCC/FFFFFF?text=Event+1",
	},
	{
		Slug:     "new-member",
		Title:    "New Member Benefits",
		Headline: "15% coupon on sign up",
		Body:     "Join now and receive a 15% discount coupon valid on every product.",
		Period:   "coupon valid for 30 days from issue",
		Banner:   "https://placehold.co/1200x400/AAAAAA/FFFFFF?text=Event+2",
	},
	{
		Slug:     "summer-sale",
		Title:    "Fragrances for Summer",
		Headline: "Light and fresh scents",
		Body:     "Citrus and aqua notes to keep you bright through the hot season.",
		Period:   "until August 31",
		Banner:   "https://placehold.co/1200x400/888888/FFFFFF?text=Event+3",
	},
}

// Events returns the promotions in carousel order.
func Events() []Event {
	out := make([]Event, len(events))
	copy(out, events)
	return out
}

func EventBySlug(slug string) (Event, error) {
	for _, e := range events {
		if e.Slug == slug {
			return e, nil
		}
	}
	return Event{}, ErrEventNotFound
}

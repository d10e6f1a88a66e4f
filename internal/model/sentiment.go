package model

// Sentiment is the Fear & Greed reading shared by every coin in one run.
type Sentiment struct {
	Value          *int   `json:"value"`
	Classification string `json:"classification"`
}

// Known reports whether a sentiment value was fetched.
func (s Sentiment) Known() bool { return s.Value != nil }

// UnavailableSentiment is used when the sentiment source cannot be reached or parsed.
func UnavailableSentiment() Sentiment {
	return Sentiment{Classification: "Unavailable"}
}

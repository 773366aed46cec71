package zoezi

// Site is a gym location visible to the API key.
type Site struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CardType is a membership/training card type. It only annotates the
// response; it never affects the aggregation math.
type CardType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

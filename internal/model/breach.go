package model

// Breach is one historical data-exposure incident in its canonical shape.
// Optional fields are pointers so an absent upstream value serializes as null
// instead of a zero value.
type Breach struct {
	Name        string   `json:"name"`
	Domain      *string  `json:"domain"`
	BreachDate  *string  `json:"breachDate"`
	AddedDate   *string  `json:"addedDate"`
	PwnCount    *int64   `json:"pwnCount"`
	Description *string  `json:"description"`
	DataClasses []string `json:"dataClasses"`
	IsVerified  *bool    `json:"isVerified"`
}

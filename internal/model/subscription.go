package model

// SubscriptionOrder is what a finished purchase wizard hands over.
type SubscriptionOrder struct {
	Months int   `json:"months"`
	SizeGB int   `json:"size_gb"`
	Price  int64 `json:"price"` // toman
}

package models

type DietType string

const (
	DietVegetarian DietType = "vegetarian"
	DietVegan      DietType = "vegan"
	DietHalal      DietType = "halal"
	DietKosher     DietType = "kosher"
	DietGlutenFree DietType = "gluten-free"
	DietKeto       DietType = "keto"
	DietPaleo      DietType = "paleo"
)

var DietTypes = []DietType{
	DietVegetarian, DietVegan, DietHalal, DietKosher,
	DietGlutenFree, DietKeto, DietPaleo,
}

type DietaryIntent struct {
	Type       DietType `json:"type"`
	Confidence float64  `json:"confidence"`
}

// IntentBoost lifts POIs whose text matches any keyword.
type IntentBoost struct {
	Name        string   `json:"name,omitempty"`
	Keywords    []string `json:"keywords"`
	BoostFactor float64  `json:"boostFactor"`
	Confidence  float64  `json:"confidence"`
}

type Preferences struct {
	MaxDistanceKm float64 `json:"maxDistanceKm,omitempty"`
}

type UserContext struct {
	Location            *Coordinates   `json:"location,omitempty"`
	DietaryIntent       *DietaryIntent `json:"dietaryIntent,omitempty"`
	GeneralIntentBoosts []IntentBoost  `json:"generalIntentBoosts,omitempty"`
	Preferences         Preferences    `json:"preferences"`
}

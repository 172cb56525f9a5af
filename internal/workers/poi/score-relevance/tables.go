// internal/workers/poi/score-relevance/tables.go
package scorerelevance

import (
	"strings"

	"poi-workers/internal/models"
)

// CategoryKind is the coarse category family used by the relevance table.
type CategoryKind int

const (
	KindOther CategoryKind = iota
	KindPlantBased
	KindCafe
	KindBakery
	KindSteakhouse
	KindSeafood
	KindFastFood
	KindBar
	KindRestaurant
	KindLodging
)

// categoryMarkers is checked in order; the first marker found in the
// category text decides the kind.
var categoryMarkers = []struct {
	kind    CategoryKind
	markers []string
}{
	{KindPlantBased, []string{"vegan", "vegetarian", "plant-based"}},
	{KindCafe, []string{"cafe", "café", "coffee", "tea house"}},
	{KindBakery, []string{"bakery", "pastry", "panader"}},
	{KindSteakhouse, []string{"steak", "grill", "bbq", "barbecue", "asador"}},
	{KindSeafood, []string{"seafood", "fish", "marisc", "sushi"}},
	{KindFastFood, []string{"fast food", "burger", "pizza", "kebab"}},
	{KindBar, []string{"bar", "pub", "tapas", "wine"}},
	{KindRestaurant, []string{"restaurant", "bistro", "diner", "eatery", "food"}},
	{KindLodging, []string{"hotel", "hostel", "lodging", "apartment", "resort"}},
}

func categoryKind(category string) CategoryKind {
	c := strings.ToLower(category)
	for _, entry := range categoryMarkers {
		for _, marker := range entry.markers {
			if strings.Contains(c, marker) {
				return entry.kind
			}
		}
	}
	return KindOther
}

// categoryRelevance maps (diet, category kind) to a fixed relevance. Pairs
// not listed score the neutral 0.5.
var categoryRelevance = map[models.DietType]map[CategoryKind]float64{
	models.DietVegetarian: {
		KindPlantBased: 1.0, KindCafe: 0.8, KindBakery: 0.7, KindRestaurant: 0.7,
		KindFastFood: 0.4, KindBar: 0.4, KindSeafood: 0.3, KindSteakhouse: 0.1,
	},
	models.DietVegan: {
		KindPlantBased: 1.0, KindCafe: 0.7, KindRestaurant: 0.6, KindBakery: 0.5,
		KindFastFood: 0.3, KindSeafood: 0.1, KindSteakhouse: 0.1,
	},
	models.DietHalal: {
		KindRestaurant: 0.7, KindSteakhouse: 0.6, KindFastFood: 0.6, KindSeafood: 0.6,
		KindPlantBased: 0.6, KindBar: 0.1,
	},
	models.DietKosher: {
		KindRestaurant: 0.7, KindBakery: 0.7, KindPlantBased: 0.6, KindSeafood: 0.4, KindBar: 0.2,
	},
	models.DietGlutenFree: {
		KindSteakhouse: 0.8, KindSeafood: 0.8, KindRestaurant: 0.7, KindPlantBased: 0.7,
		KindCafe: 0.6, KindBakery: 0.3,
	},
	models.DietKeto: {
		KindSteakhouse: 1.0, KindSeafood: 0.9, KindPlantBased: 0.5, KindCafe: 0.4,
		KindFastFood: 0.3, KindBakery: 0.1,
	},
	models.DietPaleo: {
		KindSteakhouse: 0.9, KindSeafood: 0.9, KindPlantBased: 0.6, KindFastFood: 0.2, KindBakery: 0.1,
	},
}

// dietKeywords are matched against a POI's text to measure how well it
// serves a diet.
var dietKeywords = map[models.DietType][]string{
	models.DietVegetarian: {"vegetarian", "veggie", "meat-free", "plant-based", "salad", "vegan"},
	models.DietVegan:      {"vegan", "plant-based", "dairy-free", "tofu", "vegetable"},
	models.DietHalal:      {"halal", "middle eastern", "turkish", "lebanese", "moroccan"},
	models.DietKosher:     {"kosher", "jewish", "israeli"},
	models.DietGlutenFree: {"gluten-free", "gluten free", "celiac", "coeliac"},
	models.DietKeto:       {"keto", "low-carb", "low carb", "steak", "grill"},
	models.DietPaleo:      {"paleo", "grass-fed", "organic", "grill"},
}

type dietCue struct {
	phrase     string
	confidence float64
}

// dietCues detect a dietary intent in the utterance, in models.DietTypes
// order. The strongest matching cue decides the confidence.
var dietCues = map[models.DietType][]dietCue{
	models.DietVegetarian: {{"vegetarian", 0.9}, {"veggie", 0.8}, {"meat-free", 0.8}, {"meatless", 0.8}, {"no meat", 0.7}},
	models.DietVegan:      {{"vegan", 0.95}, {"plant-based", 0.85}, {"plant based", 0.85}},
	models.DietHalal:      {{"halal", 0.95}},
	models.DietKosher:     {{"kosher", 0.95}},
	models.DietGlutenFree: {{"gluten-free", 0.9}, {"gluten free", 0.9}, {"celiac", 0.85}, {"coeliac", 0.85}, {"no gluten", 0.8}},
	models.DietKeto:       {{"keto", 0.9}, {"ketogenic", 0.9}, {"low-carb", 0.7}, {"low carb", 0.7}},
	models.DietPaleo:      {{"paleo", 0.9}},
}

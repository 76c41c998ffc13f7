package main

import (
	"log"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/katnyeung/beans-finder-sub000/internal/model"
)

// SeedCatalog inserts a starter catalog. Profiles are scored 0..1:
// flavor follows the 9 flavor-wheel categories (fruity, floral, sweet,
// nutty, cocoa, spices, roasted, green, sour_fermented), character follows
// the 4 axes (acidity, body, roast, complexity).
func SeedCatalog(db *gorm.DB) {
	products := []model.Product{
		{
			Name:       "Yirgacheffe Washed G1",
			Brand:      "Kurasu",
			Origins:    datatypes.NewJSONSlice([]string{"Ethiopia"}),
			RoastLevel: "Light",
			Processes:  datatypes.NewJSONSlice([]string{"Washed"}),
			Price:      18.50,
			Currency:   "USD",
			TastingNotes: datatypes.NewJSONSlice([]model.TastingNote{
				{Note: "bergamot", Category: "floral"},
				{Note: "lemon", Category: "fruity"},
				{Note: "honey", Category: "sweet"},
			}),
			FlavorProfile:    pgvector.NewVector([]float32{0.8, 0.7, 0.5, 0.1, 0.1, 0.1, 0.1, 0.2, 0.2}),
			CharacterProfile: pgvector.NewVector([]float32{0.9, 0.3, 0.2, 0.8}),
		},
		{
			Name:       "Kiambu AA",
			Brand:      "Square Mile",
			Origins:    datatypes.NewJSONSlice([]string{"Kenya"}),
			RoastLevel: "Light",
			Processes:  datatypes.NewJSONSlice([]string{"Washed"}),
			Price:      21.00,
			Currency:   "USD",
			TastingNotes: datatypes.NewJSONSlice([]model.TastingNote{
				{Note: "blackcurrant", Category: "fruity"},
				{Note: "grapefruit", Category: "fruity"},
				{Note: "brown sugar", Category: "sweet"},
			}),
			FlavorProfile:    pgvector.NewVector([]float32{0.9, 0.3, 0.6, 0.1, 0.1, 0.1, 0.1, 0.1, 0.3}),
			CharacterProfile: pgvector.NewVector([]float32{0.9, 0.5, 0.2, 0.7}),
		},
		{
			Name:       "Fazenda Santa Ines",
			Brand:      "Has Bean",
			Origins:    datatypes.NewJSONSlice([]string{"Brazil"}),
			RoastLevel: "Medium",
			Processes:  datatypes.NewJSONSlice([]string{"Natural"}),
			Price:      14.00,
			Currency:   "USD",
			TastingNotes: datatypes.NewJSONSlice([]model.TastingNote{
				{Note: "milk chocolate", Category: "cocoa"},
				{Note: "hazelnut", Category: "nutty"},
				{Note: "caramel", Category: "sweet"},
			}),
			FlavorProfile:    pgvector.NewVector([]float32{0.2, 0.1, 0.7, 0.8, 0.8, 0.1, 0.3, 0.1, 0.1}),
			CharacterProfile: pgvector.NewVector([]float32{0.3, 0.7, 0.5, 0.4}),
		},
		{
			Name:       "Cerrado Peaberry",
			Brand:      "Coffee Collective",
			Origins:    datatypes.NewJSONSlice([]string{"Brazil"}),
			RoastLevel: "Dark",
			Processes:  datatypes.NewJSONSlice([]string{"Pulped Natural"}),
			Price:      13.50,
			Currency:   "USD",
			TastingNotes: datatypes.NewJSONSlice([]model.TastingNote{
				{Note: "dark chocolate", Category: "cocoa"},
				{Note: "toasted almond", Category: "nutty"},
				{Note: "molasses", Category: "sweet"},
			}),
			FlavorProfile:    pgvector.NewVector([]float32{0.1, 0.1, 0.5, 0.7, 0.9, 0.2, 0.6, 0.1, 0.1}),
			CharacterProfile: pgvector.NewVector([]float32{0.2, 0.8, 0.8, 0.3}),
		},
		{
			Name:       "Mandheling Grade 1",
			Brand:      "Union",
			Origins:    datatypes.NewJSONSlice([]string{"Sumatra"}),
			RoastLevel: "Dark",
			Processes:  datatypes.NewJSONSlice([]string{"Wet Hulled"}),
			Price:      15.00,
			Currency:   "USD",
			TastingNotes: datatypes.NewJSONSlice([]model.TastingNote{
				{Note: "cedar", Category: "roasted"},
				{Note: "dark chocolate", Category: "cocoa"},
				{Note: "earthy", Category: "green"},
			}),
			FlavorProfile:    pgvector.NewVector([]float32{0.1, 0.1, 0.3, 0.3, 0.7, 0.4, 0.8, 0.5, 0.1}),
			CharacterProfile: pgvector.NewVector([]float32{0.2, 0.9, 0.8, 0.5}),
		},
		{
			Name:       "Huila Supremo",
			Brand:      "La Cabra",
			Origins:    datatypes.NewJSONSlice([]string{"Colombia"}),
			RoastLevel: "Medium",
			Processes:  datatypes.NewJSONSlice([]string{"Washed"}),
			Price:      16.00,
			Currency:   "USD",
			TastingNotes: datatypes.NewJSONSlice([]model.TastingNote{
				{Note: "red apple", Category: "fruity"},
				{Note: "caramel", Category: "sweet"},
				{Note: "walnut", Category: "nutty"},
			}),
			FlavorProfile:    pgvector.NewVector([]float32{0.5, 0.2, 0.7, 0.5, 0.3, 0.1, 0.2, 0.1, 0.1}),
			CharacterProfile: pgvector.NewVector([]float32{0.5, 0.6, 0.5, 0.4}),
		},
		{
			Name:       "Gesha Village Lot 24",
			Brand:      "Tim Wendelboe",
			Origins:    datatypes.NewJSONSlice([]string{"Ethiopia"}),
			RoastLevel: "Light",
			Processes:  datatypes.NewJSONSlice([]string{"Natural"}),
			Price:      32.00,
			Currency:   "USD",
			TastingNotes: datatypes.NewJSONSlice([]model.TastingNote{
				{Note: "jasmine", Category: "floral"},
				{Note: "peach", Category: "fruity"},
				{Note: "black tea", Category: "green"},
			}),
			FlavorProfile:    pgvector.NewVector([]float32{0.8, 0.9, 0.5, 0.1, 0.1, 0.1, 0.1, 0.4, 0.2}),
			CharacterProfile: pgvector.NewVector([]float32{0.8, 0.3, 0.1, 0.9}),
		},
		{
			Name:       "Boquete Gesha",
			Brand:      "Ninety Plus",
			Origins:    datatypes.NewJSONSlice([]string{"Panama"}),
			RoastLevel: "Light",
			Processes:  datatypes.NewJSONSlice([]string{"Washed"}),
			Price:      45.00,
			Currency:   "USD",
			TastingNotes: datatypes.NewJSONSlice([]model.TastingNote{
				{Note: "orange blossom", Category: "floral"},
				{Note: "mandarin", Category: "fruity"},
				{Note: "honey", Category: "sweet"},
			}),
			FlavorProfile:    pgvector.NewVector([]float32{0.7, 0.9, 0.6, 0.1, 0.1, 0.1, 0.1, 0.2, 0.1}),
			CharacterProfile: pgvector.NewVector([]float32{0.8, 0.2, 0.1, 0.9}),
		},
		{
			Name:       "Mokha Matari",
			Brand:      "Port of Mokha",
			Origins:    datatypes.NewJSONSlice([]string{"Yemen"}),
			RoastLevel: "Medium",
			Processes:  datatypes.NewJSONSlice([]string{"Natural"}),
			Price:      38.00,
			Currency:   "USD",
			TastingNotes: datatypes.NewJSONSlice([]model.TastingNote{
				{Note: "dried fig", Category: "fruity"},
				{Note: "cinnamon", Category: "spices"},
				{Note: "winey", Category: "sour_fermented"},
			}),
			FlavorProfile:    pgvector.NewVector([]float32{0.6, 0.2, 0.5, 0.2, 0.4, 0.8, 0.2, 0.1, 0.6}),
			CharacterProfile: pgvector.NewVector([]float32{0.6, 0.7, 0.5, 0.9}),
		},
		{
			Name:       "Da Lat Arabica",
			Brand:      "Lacaph",
			Origins:    datatypes.NewJSONSlice([]string{"Vietnam"}),
			RoastLevel: "Dark",
			Processes:  datatypes.NewJSONSlice([]string{"Natural"}),
			Price:      11.00,
			Currency:   "USD",
			TastingNotes: datatypes.NewJSONSlice([]model.TastingNote{
				{Note: "roasted peanut", Category: "nutty"},
				{Note: "bitter cocoa", Category: "cocoa"},
				{Note: "smoky", Category: "roasted"},
			}),
			FlavorProfile:    pgvector.NewVector([]float32{0.1, 0.1, 0.3, 0.8, 0.7, 0.1, 0.9, 0.2, 0.1}),
			CharacterProfile: pgvector.NewVector([]float32{0.2, 0.8, 0.9, 0.2}),
		},
	}

	for _, p := range products {
		var count int64
		db.Model(&model.Product{}).Where("name = ? AND brand = ?", p.Name, p.Brand).Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&p).Error; err != nil {
			log.Printf("[WARN] Failed to seed %q: %v", p.Name, err)
		}
	}
}

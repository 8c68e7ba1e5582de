// Package core - Core Business Logic
// Static reward catalog. Entries are compiled in rather than stored, so the
// catalog stays identical across instances and ids are safe to hard-code in
// the client.
package core

import (
	"time"

	"misimuslim/pkg/models"
)

// StarterBorderID is unlocked and equipped for every new account
const StarterBorderID = "border-starter"

var rewardCatalog = []models.Reward{
	{
		ID:          StarterBorderID,
		Name:        "Bingkai Pemula",
		Description: "Bingkai profil pertamamu, hadiah selamat datang",
		Cost:        0,
		Type:        models.RewardTypeBorder,
		Value:       "starter",
	},
	{
		ID:          "border-gold",
		Name:        "Bingkai Emas",
		Description: "Bingkai emas berkilau untuk profilmu",
		Cost:        250,
		Type:        models.RewardTypeBorder,
		Value:       "gold",
	},
	{
		ID:          "border-calligraphy",
		Name:        "Bingkai Kaligrafi",
		Description: "Bingkai dengan ornamen kaligrafi klasik",
		Cost:        400,
		Type:        models.RewardTypeBorder,
		Value:       "calligraphy",
	},
	{
		ID:          "theme-night",
		Name:        "Tema Malam",
		Description: "Tampilan gelap yang nyaman untuk tadarus malam",
		Cost:        150,
		Type:        models.RewardTypeTheme,
		Value:       "night",
	},
	{
		ID:          "theme-sage",
		Name:        "Tema Zaitun",
		Description: "Nuansa hijau zaitun yang menenangkan",
		Cost:        150,
		Type:        models.RewardTypeTheme,
		Value:       "sage",
	},
	{
		ID:          "border-ramadhan",
		Name:        "Bingkai Ramadhan",
		Description: "Bingkai edisi terbatas bulan Ramadhan",
		Cost:        300,
		Type:        models.RewardTypeBorder,
		Value:       "ramadhan",
		Season: &models.Season{
			Name:       "Ramadhan 1447H",
			StartMonth: time.February,
			StartDay:   18,
			EndMonth:   time.March,
			EndDay:     19,
		},
	},
	{
		ID:          "theme-idulfitri",
		Name:        "Tema Idul Fitri",
		Description: "Tema perayaan edisi lebaran",
		Cost:        200,
		Type:        models.RewardTypeTheme,
		Value:       "idulfitri",
		Season: &models.Season{
			Name:       "Idul Fitri 1447H",
			StartMonth: time.March,
			StartDay:   20,
			EndMonth:   time.April,
			EndDay:     3,
		},
	},
	{
		ID:          "border-muharram",
		Name:        "Bingkai Tahun Baru Hijriah",
		Description: "Bingkai edisi awal tahun hijriah",
		Cost:        300,
		Type:        models.RewardTypeBorder,
		Value:       "muharram",
		Season: &models.Season{
			Name:       "Muharram 1448H",
			StartMonth: time.June,
			StartDay:   25,
			EndMonth:   time.July,
			EndDay:     25,
		},
	},
}

// findReward looks up a catalog entry by id
func findReward(id string) (*models.Reward, bool) {
	for i := range rewardCatalog {
		if rewardCatalog[i].ID == id {
			return &rewardCatalog[i], true
		}
	}
	return nil, false
}

package services

import (
	"testing"

	"github.com/animehub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCreateAttireMissingProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccessoryService(db)

	_, err := svc.CreateAttire(9999, AttireSpec{
		Name:        "Battle Gear",
		Accessories: []AccessorySpec{{Description: "Sword"}},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAttirePersistsAccessoriesAndLinks(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccessoryService(db)
	profile := createTestProfile(t, db, "Edward")

	attireID, err := svc.CreateAttire(profile.ID, AttireSpec{
		Name:                 "Alchemist Coat",
		Type:                 "casual",
		Description:          "Red coat with crest",
		HairstyleDescription: "Braided",
		Accessories: []AccessorySpec{
			{Description: "Pocket watch", UniqueEffect: strPtr("State certification")},
			{Description: "Automail arm", IsWeapon: true},
		},
	})
	require.NoError(t, err)

	attire, err := svc.GetAttire(attireID)
	require.NoError(t, err)
	assert.Equal(t, "Alchemist Coat", attire.Name)
	assert.Equal(t, profile.ID, attire.CharacterProfileID)
	require.Len(t, attire.AccessoryLinks, 2)
	for _, link := range attire.AccessoryLinks {
		require.NotNil(t, link.Accessory)
	}
}

func TestAccessorySharedAcrossAttires(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccessoryService(db)
	profile := createTestProfile(t, db, "Roy")

	shared := AccessorySpec{Description: "Ignition gloves", IsWeapon: true, UniqueEffect: strPtr("Flame alchemy")}

	firstID, err := svc.CreateAttire(profile.ID, AttireSpec{Name: "Uniform", Accessories: []AccessorySpec{shared}})
	require.NoError(t, err)
	secondID, err := svc.CreateAttire(profile.ID, AttireSpec{Name: "Civilian", Accessories: []AccessorySpec{shared}})
	require.NoError(t, err)

	// One accessory row, referenced by both links
	var accessories int64
	require.NoError(t, db.Model(&models.Accessory{}).Count(&accessories).Error)
	assert.Equal(t, int64(1), accessories)

	var links int64
	require.NoError(t, db.Model(&models.AccessoryLink{}).Count(&links).Error)
	assert.Equal(t, int64(2), links)

	first, err := svc.GetAttire(firstID)
	require.NoError(t, err)
	second, err := svc.GetAttire(secondID)
	require.NoError(t, err)
	assert.Equal(t, first.AccessoryLinks[0].AccessoryID, second.AccessoryLinks[0].AccessoryID)
}

func TestDuplicateAccessoriesWithinOneRequestCollapse(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccessoryService(db)
	profile := createTestProfile(t, db, "Winry")

	attireID, err := svc.CreateAttire(profile.ID, AttireSpec{
		Name: "Workshop",
		Accessories: []AccessorySpec{
			{Description: "Wrench"},
			{Description: "Wrench"},
		},
	})
	require.NoError(t, err)

	attire, err := svc.GetAttire(attireID)
	require.NoError(t, err)
	assert.Len(t, attire.AccessoryLinks, 1)
}

func TestAccessoryIdentityDistinguishesNilEffect(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccessoryService(db)
	profile := createTestProfile(t, db, "Alphonse")

	_, err := svc.CreateAttire(profile.ID, AttireSpec{
		Name: "Armor",
		Accessories: []AccessorySpec{
			{Description: "Helmet"},
			{Description: "Helmet", UniqueEffect: strPtr("Soul anchor")},
		},
	})
	require.NoError(t, err)

	// Same description, different effect identity: two distinct rows
	var accessories int64
	require.NoError(t, db.Model(&models.Accessory{}).Count(&accessories).Error)
	assert.Equal(t, int64(2), accessories)
}

func TestDeleteAttireKeepsSharedAccessories(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccessoryService(db)
	profile := createTestProfile(t, db, "Izumi")

	shared := AccessorySpec{Description: "Training weights"}
	firstID, err := svc.CreateAttire(profile.ID, AttireSpec{Name: "Gi", Accessories: []AccessorySpec{shared}})
	require.NoError(t, err)
	secondID, err := svc.CreateAttire(profile.ID, AttireSpec{Name: "Apron", Accessories: []AccessorySpec{shared}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAttire(firstID))

	_, err = svc.GetAttire(firstID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The accessory row and the other attire's link survive
	var accessories int64
	require.NoError(t, db.Model(&models.Accessory{}).Count(&accessories).Error)
	assert.Equal(t, int64(1), accessories)

	second, err := svc.GetAttire(secondID)
	require.NoError(t, err)
	assert.Len(t, second.AccessoryLinks, 1)
}

func TestDeleteAttireMissing(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccessoryService(db)

	assert.ErrorIs(t, svc.DeleteAttire(4242), ErrNotFound)
}

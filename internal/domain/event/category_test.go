package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrimeTable_Category(t *testing.T) {
	table := DefaultCrimeTable()

	assert.Equal(t, CrimeHomicide, table.Category(110))
	assert.Equal(t, CrimeRobbery, table.Category(210))
	assert.Equal(t, CrimeSevereAggression, table.Category(230))
	assert.Equal(t, CrimeLightAggression, table.Category(624))
	assert.Equal(t, CrimeFraud, table.Category(940))
}

func TestCrimeTable_UnknownCodeIsUndefined(t *testing.T) {
	table := DefaultCrimeTable()
	assert.Equal(t, CrimeUndefined, table.Category(0))
	assert.Equal(t, CrimeUndefined, table.Category(9999))
	assert.Equal(t, CrimeUndefined, table.Category(-1))
}

func TestWeaponTable_Category(t *testing.T) {
	table := DefaultWeaponTable()

	assert.Equal(t, WeaponAutomaticFirearm, table.Category(105))
	assert.Equal(t, WeaponSemiAutoFirearm, table.Category(109))
	assert.Equal(t, WeaponFirearm, table.Category(102))
	assert.Equal(t, WeaponCutting, table.Category(200))
	assert.Equal(t, WeaponBlunt, table.Category(213))
	assert.Equal(t, WeaponPersonalForce, table.Category(400))
	assert.Equal(t, WeaponUndefined, table.Category(0))
	assert.Equal(t, WeaponUndefined, table.Category(777))
}

func TestTablesFromCodes(t *testing.T) {
	crimes := CrimeTableFromCodes(map[string][]int{"robbery": {42}})
	assert.Equal(t, CrimeRobbery, crimes.Category(42))
	assert.Equal(t, CrimeUndefined, crimes.Category(110))

	weapons := WeaponTableFromCodes(map[string][]int{"firearm": {7}})
	assert.Equal(t, WeaponFirearm, weapons.Category(7))
	assert.Equal(t, WeaponUndefined, weapons.Category(102))
}

func TestTablesFromCodes_EmptySelectsDefaults(t *testing.T) {
	assert.Equal(t, CrimeHomicide, CrimeTableFromCodes(nil).Category(110))
	assert.Equal(t, WeaponCutting, WeaponTableFromCodes(nil).Category(204))
}

func TestCategoryFamilies(t *testing.T) {
	assert.True(t, CrimeSevereAggression.IsAggression())
	assert.True(t, CrimeLightAggression.IsAggression())
	assert.False(t, CrimeHomicide.IsAggression())
	assert.False(t, CrimeUndefined.IsAggression())

	assert.True(t, WeaponAutomaticFirearm.IsFirearm())
	assert.True(t, WeaponFirearm.IsFirearm())
	assert.False(t, WeaponCutting.IsFirearm())
	assert.True(t, WeaponBlunt.IsCuttingOrBlunt())
	assert.False(t, WeaponUndefined.IsFirearm())
	assert.False(t, WeaponUndefined.IsCuttingOrBlunt())
}

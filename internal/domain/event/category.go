package event

// CrimeCategory is the semantic bucket of a numeric crime code.
type CrimeCategory string

const (
	CrimeHomicide         CrimeCategory = "homicide"
	CrimeSexual           CrimeCategory = "sexual crime"
	CrimeRobbery          CrimeCategory = "robbery"
	CrimeSevereAggression CrimeCategory = "severe aggression"
	CrimeLightAggression  CrimeCategory = "light aggression"
	CrimeVandalism        CrimeCategory = "vandalism"
	CrimeKidnapping       CrimeCategory = "kidnapping"
	CrimeFraud            CrimeCategory = "fraud"
	CrimeUndefined        CrimeCategory = "undefined"
)

// IsAggression reports whether the category belongs to the aggression family.
func (c CrimeCategory) IsAggression() bool {
	return c == CrimeSevereAggression || c == CrimeLightAggression
}

// WeaponCategory is the semantic bucket of a numeric weapon code.
type WeaponCategory string

const (
	WeaponAutomaticFirearm WeaponCategory = "automatic firearm"
	WeaponSemiAutoFirearm  WeaponCategory = "semi-automatic firearm"
	WeaponFirearm          WeaponCategory = "firearm"
	WeaponCutting          WeaponCategory = "cutting object"
	WeaponBlunt            WeaponCategory = "blunt object"
	WeaponPersonalForce    WeaponCategory = "personal force"
	WeaponThreat           WeaponCategory = "threat"
	WeaponOther            WeaponCategory = "other"
	WeaponUndefined        WeaponCategory = "undefined"
)

// IsFirearm reports whether the category is any firearm subcategory.
func (w WeaponCategory) IsFirearm() bool {
	return w == WeaponAutomaticFirearm || w == WeaponSemiAutoFirearm || w == WeaponFirearm
}

// IsCuttingOrBlunt reports whether the category is a cutting or blunt object
// subcategory.
func (w WeaponCategory) IsCuttingOrBlunt() bool {
	return w == WeaponCutting || w == WeaponBlunt
}

// CrimeTable maps numeric crime codes to categories.  The table is immutable
// configuration data: built once at construction and safely shared read-only
// across parallel workers.
type CrimeTable struct {
	byCode map[int]CrimeCategory
}

// NewCrimeTable builds a CrimeTable from a category→codes listing.  Codes
// listed under multiple categories resolve to the last category processed;
// the default table has no such overlaps.
func NewCrimeTable(codes map[CrimeCategory][]int) *CrimeTable {
	byCode := make(map[int]CrimeCategory)
	for cat, list := range codes {
		for _, code := range list {
			byCode[code] = cat
		}
	}
	return &CrimeTable{byCode: byCode}
}

// Category returns the bucket for a crime code, or CrimeUndefined for codes
// outside every configured range.  It is a total function and never fails.
func (t *CrimeTable) Category(code int) CrimeCategory {
	if cat, ok := t.byCode[code]; ok {
		return cat
	}
	return CrimeUndefined
}

// WeaponTable maps numeric weapon codes to categories, with the same
// immutability and totality guarantees as CrimeTable.
type WeaponTable struct {
	byCode map[int]WeaponCategory
}

// NewWeaponTable builds a WeaponTable from a category→codes listing.
func NewWeaponTable(codes map[WeaponCategory][]int) *WeaponTable {
	byCode := make(map[int]WeaponCategory)
	for cat, list := range codes {
		for _, code := range list {
			byCode[code] = cat
		}
	}
	return &WeaponTable{byCode: byCode}
}

// Category returns the bucket for a weapon code, or WeaponUndefined for codes
// outside every configured range.
func (t *WeaponTable) Category(code int) WeaponCategory {
	if cat, ok := t.byCode[code]; ok {
		return cat
	}
	return WeaponUndefined
}

// CrimeTableFromCodes builds a CrimeTable from a label-keyed listing, the
// shape category overrides take in configuration.  An empty listing selects
// the default table.
func CrimeTableFromCodes(codes map[string][]int) *CrimeTable {
	if len(codes) == 0 {
		return DefaultCrimeTable()
	}
	byCategory := make(map[CrimeCategory][]int, len(codes))
	for label, list := range codes {
		byCategory[CrimeCategory(label)] = list
	}
	return NewCrimeTable(byCategory)
}

// WeaponTableFromCodes builds a WeaponTable from a label-keyed listing.  An
// empty listing selects the default table.
func WeaponTableFromCodes(codes map[string][]int) *WeaponTable {
	if len(codes) == 0 {
		return DefaultWeaponTable()
	}
	byCategory := make(map[WeaponCategory][]int, len(codes))
	for label, list := range codes {
		byCategory[WeaponCategory(label)] = list
	}
	return NewWeaponTable(byCategory)
}

// DefaultCrimeTable returns the standard crime-code bucketing for the LAPD
// incident code scheme.
func DefaultCrimeTable() *CrimeTable {
	return NewCrimeTable(map[CrimeCategory][]int{
		CrimeHomicide: {110, 113},
		CrimeSexual: {121, 122, 815, 820, 821, 812, 813, 822, 845, 850, 860,
			760, 762},
		CrimeRobbery: {210, 220, 310, 320, 510, 520, 433, 330, 331, 410, 420,
			421, 350, 351, 352, 353, 450, 451, 452, 453, 341, 343, 345, 440,
			441, 442, 443, 444, 445, 470, 471, 472, 473, 474, 475, 480, 485,
			487, 491, 522, 349, 446},
		CrimeSevereAggression: {230, 231, 235, 236, 250, 251, 761, 926},
		CrimeLightAggression: {435, 436, 437, 622, 623, 624, 625, 626, 627,
			647, 763, 928, 930},
		CrimeVandalism:  {648, 924, 740, 745, 753, 886, 888, 755, 884, 756},
		CrimeKidnapping: {910, 920, 922},
		CrimeFraud:      {940, 662, 664, 666},
	})
}

// DefaultWeaponTable returns the standard weapon-code bucketing for the LAPD
// weapon code scheme.
func DefaultWeaponTable() *WeaponTable {
	return NewWeaponTable(map[WeaponCategory][]int{
		WeaponAutomaticFirearm: {105, 108},
		WeaponSemiAutoFirearm:  {109, 110},
		WeaponFirearm: {101, 102, 103, 104, 106, 107, 113, 114, 115, 116,
			117, 118, 119, 120, 121, 122, 123, 124, 125},
		WeaponCutting: {200, 201, 202, 203, 204, 205, 206, 207, 208, 209,
			210, 211},
		WeaponBlunt: {212, 213, 214, 215, 216, 217, 218, 219, 220, 221,
			222, 223},
		WeaponPersonalForce: {400, 401, 402},
		WeaponThreat:        {501, 510, 511},
		WeaponOther:         {500, 512, 513, 514, 515, 516},
	})
}

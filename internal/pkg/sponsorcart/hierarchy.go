package sponsorcart

import "fmt"

// BuildHierarchyData assembles the ancestor-name snapshot for a bulk
// selection at the given level from the current selection chain. Names for
// levels below the requested one are left empty.
func BuildHierarchyData(level Level, zone, district, subdistrict, localBodyType, localBodyName string) HierarchyData {
	h := HierarchyData{State: StateName}
	if level == LevelState {
		return h
	}
	h.Zone = zone
	if level == LevelZone {
		return h
	}
	h.District = district
	if level == LevelDistrict {
		return h
	}
	h.Subdistrict = subdistrict
	if level == LevelSubdistrict {
		return h
	}
	if t := NormalizeType(localBodyType); t != TypeAll {
		h.LocalBodyType = t
	}
	if level == LevelType {
		return h
	}
	h.LocalBodyName = localBodyName
	return h
}

// CheckHierarchyConflict rejects a proposed selection when it overlaps any
// bulk claim already in the cart. Existing items are evaluated in cart order
// and the first match wins; individual entries in the cart never conflict
// here. The returned message names the conflicting scope.
func CheckHierarchyConflict(newLevel Level, newHierarchy HierarchyData, existing []CartItem) ConflictResult {
	for i := range existing {
		item := &existing[i]
		if !item.IsBulk || item.BulkLevel == "" {
			continue
		}

		var existingHierarchy HierarchyData
		if item.Hierarchy != nil {
			existingHierarchy = *item.Hierarchy
		}

		// State subsumes everything, in both directions.
		if item.BulkLevel == LevelState {
			return ConflictResult{
				HasConflict:     true,
				Message:         fmt.Sprintf("Cannot add %s selection. Entire state of %s is already in cart.", newLevel, StateName),
				ConflictingItem: item,
			}
		}
		if newLevel == LevelState {
			return ConflictResult{
				HasConflict:     true,
				Message:         fmt.Sprintf("Cannot add entire state. Cart already contains %s level selection.", item.BulkLevel),
				ConflictingItem: item,
			}
		}

		// Zone level.
		if item.BulkLevel == LevelZone && existingHierarchy.Zone == newHierarchy.Zone {
			return ConflictResult{
				HasConflict:     true,
				Message:         fmt.Sprintf("Cannot add %s selection. Zone %q is already in cart.", newLevel, existingHierarchy.Zone),
				ConflictingItem: item,
			}
		}
		if newLevel == LevelZone && newHierarchy.Zone == existingHierarchy.Zone {
			return ConflictResult{
				HasConflict:     true,
				Message:         fmt.Sprintf("Cannot add zone %q. Cart already contains %s level selection from this zone.", newHierarchy.Zone, item.BulkLevel),
				ConflictingItem: item,
			}
		}

		// District level.
		if item.BulkLevel == LevelDistrict && existingHierarchy.District == newHierarchy.District {
			return ConflictResult{
				HasConflict:     true,
				Message:         fmt.Sprintf("Cannot add %s selection. District %q is already in cart.", newLevel, existingHierarchy.District),
				ConflictingItem: item,
			}
		}
		if newLevel == LevelDistrict && newHierarchy.District == existingHierarchy.District {
			return ConflictResult{
				HasConflict:     true,
				Message:         fmt.Sprintf("Cannot add district %q. Cart already contains %s level selection from this district.", newHierarchy.District, item.BulkLevel),
				ConflictingItem: item,
			}
		}

		// Subdistrict level.
		if item.BulkLevel == LevelSubdistrict && existingHierarchy.Subdistrict == newHierarchy.Subdistrict {
			return ConflictResult{
				HasConflict:     true,
				Message:         fmt.Sprintf("Cannot add %s selection. Subdistrict %q is already in cart.", newLevel, existingHierarchy.Subdistrict),
				ConflictingItem: item,
			}
		}
		if newLevel == LevelSubdistrict && newHierarchy.Subdistrict == existingHierarchy.Subdistrict {
			return ConflictResult{
				HasConflict:     true,
				Message:         fmt.Sprintf("Cannot add subdistrict %q. Cart already contains %s level selection from this subdistrict.", newHierarchy.Subdistrict, item.BulkLevel),
				ConflictingItem: item,
			}
		}

		// Type level: same subdistrict plus same local body type.
		if item.BulkLevel == LevelType &&
			existingHierarchy.Subdistrict == newHierarchy.Subdistrict &&
			existingHierarchy.LocalBodyType == newHierarchy.LocalBodyType {
			return ConflictResult{
				HasConflict:     true,
				Message:         fmt.Sprintf("Cannot add %s selection. %ss in %s are already in cart.", newLevel, TypeLabel(existingHierarchy.LocalBodyType), existingHierarchy.Subdistrict),
				ConflictingItem: item,
			}
		}

		if newLevel == LevelType &&
			item.BulkLevel == LevelLocalBody &&
			existingHierarchy.Subdistrict == newHierarchy.Subdistrict &&
			existingHierarchy.LocalBodyType == newHierarchy.LocalBodyType {
			return ConflictResult{
				HasConflict:     true,
				Message:         fmt.Sprintf("Cannot add all %ss in %s. Local body %q from this scope is already in cart.", TypeLabel(newHierarchy.LocalBodyType), newHierarchy.Subdistrict, existingHierarchy.LocalBodyName),
				ConflictingItem: item,
			}
		}

		// Local body level: exact match on subdistrict, type and name.
		if item.BulkLevel == LevelLocalBody &&
			existingHierarchy.Subdistrict == newHierarchy.Subdistrict &&
			existingHierarchy.LocalBodyType == newHierarchy.LocalBodyType &&
			existingHierarchy.LocalBodyName == newHierarchy.LocalBodyName {
			return ConflictResult{
				HasConflict:     true,
				Message:         fmt.Sprintf("Cannot add. Local body %q in %s is already in cart.", existingHierarchy.LocalBodyName, existingHierarchy.Subdistrict),
				ConflictingItem: item,
			}
		}
	}

	return ConflictResult{}
}

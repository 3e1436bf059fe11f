package enums

import "fmt"

// RelationshipLevel classifies how well the operator knows a farmer.
type RelationshipLevel string

const (
	RelationshipLevelSelf     RelationshipLevel = "SELF"
	RelationshipLevelFamily   RelationshipLevel = "FAMILY"
	RelationshipLevelFriend   RelationshipLevel = "FRIEND"
	RelationshipLevelReferred RelationshipLevel = "REFERRED"
)

var validRelationshipLevels = []RelationshipLevel{
	RelationshipLevelSelf,
	RelationshipLevelFamily,
	RelationshipLevelFriend,
	RelationshipLevelReferred,
}

// String implements fmt.Stringer.
func (r RelationshipLevel) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RelationshipLevel.
func (r RelationshipLevel) IsValid() bool {
	for _, candidate := range validRelationshipLevels {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRelationshipLevel converts raw input into a RelationshipLevel.
func ParseRelationshipLevel(value string) (RelationshipLevel, error) {
	for _, candidate := range validRelationshipLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid relationship level %q", value)
}

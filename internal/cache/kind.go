package cache

// Kind identifies one cached entity artifact.
type Kind string

const (
	KindSurvivors     Kind = "survivors"
	KindKillers       Kind = "killers"
	KindItemsAddons   Kind = "items_and_addons"
	KindSurvivorPerks Kind = "survivor_perks"
	KindIconNames     Kind = "icon_names"
)

// Kinds lists every artifact, in upload order.
var Kinds = []Kind{KindSurvivors, KindKillers, KindItemsAddons, KindSurvivorPerks, KindIconNames}

// Filename returns the artifact file name for the kind.
func (k Kind) Filename() string {
	if k == KindIconNames {
		return string(k) + ".txt"
	}
	return string(k) + ".json"
}

// MIMEType returns the content type the artifact is uploaded with.
func (k Kind) MIMEType() string {
	if k == KindIconNames {
		return "text/plain"
	}
	return "application/json"
}

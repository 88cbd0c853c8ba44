package nav

import "github.com/leapstack-labs/cubedash/internal/fragment"

// ViewType selects the top-level screen of the shell.
type ViewType int

const (
	// ViewHome lists the available data sources.
	ViewHome ViewType = iota
	// ViewCube explores the selected data source.
	ViewCube
)

// Tag values written to and read from fragments.
const (
	HomeTag = "home"
	CubeTag = fragment.CubeTag
)

// ViewTypeFromTag maps a fragment view tag onto a view. Anything that is
// not the cube tag, the empty tag included, is the home view.
func ViewTypeFromTag(tag string) ViewType {
	if tag == CubeTag {
		return ViewCube
	}
	return ViewHome
}

// Tag returns the fragment tag of the view.
func (v ViewType) Tag() string {
	switch v {
	case ViewCube:
		return CubeTag
	case ViewHome:
		return HomeTag
	}
	return HomeTag
}

func (v ViewType) String() string {
	return v.Tag()
}

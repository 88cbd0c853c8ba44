package nav

// State is the navigation record of one shell.
//
// Selected always points into DataSources, so callers can tell a real
// selection change from a no-op by comparing pointers.
type State struct {
	View        ViewType
	Selected    *DataSource
	RawHash     string
	DataSources []DataSource
	DrawerOpen  bool
}

// SelectedDataSource returns a copy of the selected data source.
func (s State) SelectedDataSource() DataSource {
	if s.Selected == nil {
		return DataSource{}
	}
	return *s.Selected
}
